package service

import "aiinterviewer/internal/model"

// BuiltinTemplates are seeded into every store and resolvable by id
var BuiltinTemplates = []model.Template{
	{
		ID:    "coffee_drinker",
		Name:  "Coffee consumption",
		Topic: "coffee consumption",
		StarterQuestions: []string{
			"Tell me about your morning routine?",
			"How do you typically consume caffeine?",
			"What role does coffee play in your daily life?",
		},
		MaxTurns: 5,
	},
	{
		ID:    "product_user",
		Name:  "Product usage feedback",
		Topic: "product usage",
		StarterQuestions: []string{
			"What brought you to try our product?",
			"Tell me about your experience using it for the first time?",
			"What were your initial expectations?",
		},
		MaxTurns: 5,
	},
	{
		ID:    "wellness_seeker",
		Name:  "Wellness habits",
		Topic: "wellness habits",
		StarterQuestions: []string{
			"How do you typically start your day?",
			"What does self-care mean to you?",
			"Tell me about your wellness journey?",
		},
		MaxTurns: 5,
	},
	{
		ID:    "default",
		Name:  "General",
		Topic: "your experience",
		StarterQuestions: []string{
			"Tell me a bit about yourself?",
			"What brings you here today?",
			"Can you share your thoughts on this topic?",
		},
		MaxTurns: 5,
	},
}

func builtinTemplate(id string) (model.Template, bool) {
	for _, t := range BuiltinTemplates {
		if t.ID == id {
			t.BuiltIn = true
			t.StarterQuestions = append([]string(nil), t.StarterQuestions...)
			return t, true
		}
	}
	return model.Template{}, false
}

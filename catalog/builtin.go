package catalog

// Role slug constants for the built-in platform roles.
const (
	RoleSuperAdmin      = "super_admin"
	RoleTenantAdmin     = "tenant_admin"
	RoleQuizCoordinator = "quiz_coordinator"
	RoleQuestionManager = "question_manager"
	RoleAccountOfficer  = "account_officer"
	RoleScorekeeper     = "scorekeeper"
	RoleParticipant     = "participant"
)

// Default returns the built-in Smart eQuiz role catalog. The super_admin
// role is listed for enumeration surfaces only; the resolver bypasses the
// catalog entirely for it.
func Default() *Catalog {
	return New(
		RoleDefinition{
			Slug:        RoleSuperAdmin,
			Name:        "Super Administrator",
			Description: "Platform operator with unconditional access to every tenant.",
			Permissions: []string{
				"platform.manage",
				"tenants.read", "tenants.create", "tenants.update", "tenants.delete",
			},
			Pages: []string{"platform", "tenants", "dashboard", "settings"},
		},
		RoleDefinition{
			Slug:        RoleTenantAdmin,
			Name:        "Tenant Administrator",
			Description: "Full control within a single tenant, including role customization.",
			Permissions: []string{
				"users.read", "users.create", "users.update", "users.delete",
				"roles.read", "roles.customize",
				"questions.read", "questions.create", "questions.update", "questions.delete",
				"tournaments.read", "tournaments.create", "tournaments.update", "tournaments.delete",
				"quizzes.read", "quizzes.create", "quizzes.update",
				"billing.read", "billing.update",
				"settings.read", "settings.update",
				"analytics.read",
			},
			Pages: []string{
				"dashboard", "users", "roles", "questions", "tournaments",
				"quizzes", "billing", "settings", "analytics",
			},
		},
		RoleDefinition{
			Slug:        RoleQuizCoordinator,
			Name:        "Quiz Coordinator",
			Description: "Runs tournaments and quizzes end to end.",
			Permissions: []string{
				"tournaments.read", "tournaments.create", "tournaments.update",
				"quizzes.read", "quizzes.create", "quizzes.update",
				"questions.read",
				"analytics.read",
			},
			Pages: []string{"dashboard", "tournaments", "quizzes", "questions", "analytics"},
		},
		RoleDefinition{
			Slug:        RoleQuestionManager,
			Name:        "Question Manager",
			Description: "Maintains the tenant question bank.",
			Permissions: []string{
				"questions.read", "questions.create", "questions.update",
			},
			Pages: []string{"dashboard", "questions"},
		},
		RoleDefinition{
			Slug:        RoleAccountOfficer,
			Name:        "Account Officer",
			Description: "Handles billing and subscription matters.",
			Permissions: []string{
				"billing.read", "billing.update",
				"settings.read",
			},
			Pages: []string{"dashboard", "billing", "settings"},
		},
		RoleDefinition{
			Slug:        RoleScorekeeper,
			Name:        "Scorekeeper",
			Description: "Records scores during live quiz rounds.",
			Permissions: []string{
				"quizzes.read", "quizzes.score",
				"tournaments.read",
			},
			Pages: []string{"dashboard", "quizzes", "tournaments"},
		},
		RoleDefinition{
			Slug:        RoleParticipant,
			Name:        "Participant",
			Description: "Quiz contestant with read-only visibility.",
			Permissions: []string{
				"quizzes.read",
				"tournaments.read",
			},
			Pages: []string{"dashboard", "quizzes", "tournaments"},
		},
	)
}

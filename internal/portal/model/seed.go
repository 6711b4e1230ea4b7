package model

// Seed datasets used when a collection has no persisted blob yet. Each
// function returns a fresh copy so callers can never mutate the seeds.

func SeedUsers() []User {
	return []User{
		{
			ID:                "u_root_aiwis",
			Name:              "AIWIS Master",
			Role:              RoleMasterRoot,
			Email:             "aiwis", // simplified login
			Password:          "123123",
			Avatar:            "https://ui-avatars.com/api/?name=AIWIS+Root&background=000&color=fff&bold=true",
			Skills:            []Skill{{Name: "Omnipotencia", Level: 100}},
			Projects:          []string{},
			CompletedVideoIDs: []string{},
		},
		{
			ID:       "u_soporte",
			Name:     "Soporte AIWIS",
			Role:     RoleAdmin,
			Email:    "soporte.aiwis@gmail.com",
			Password: "123",
			Avatar:   "https://ui-avatars.com/api/?name=AIWIS+Soporte&background=000000&color=fff",
			Skills: []Skill{
				{Name: "System Architecture", Level: 100},
				{Name: "Mentoring", Level: 100},
			},
			Projects:          []string{"PROYECTO_001"},
			CompletedVideoIDs: []string{},
		},
		{
			ID:                "u_estudiante1",
			Name:              "Estudiante Demo",
			Role:              RoleStudent,
			Email:             "alumno@aiwis.cl",
			Password:          "1234",
			Avatar:            "https://ui-avatars.com/api/?name=Estudiante+Demo&background=random",
			Skills:            []Skill{{Name: "Aprendizaje", Level: 10}},
			Projects:          []string{},
			CompletedVideoIDs: []string{},
		},
	}
}

func SeedProjects() []Project {
	return []Project{
		{
			ID:            "PROYECTO_001",
			Name:          "Migración Infraestructura Cloud",
			Client:        "Interno AIWIS",
			ClientContact: "Gerencia AIWIS",
			LeadID:        "u_soporte",
			TeamIDs:       []string{"u_soporte"},
			Status:        StatusOngoing,
			IsOngoing:     true,
			Report:        true,
			StartDate:     "2025-01-15",
			Deadline:      "2025-06-30",
			Progress:      45,
			Year:          2025,
			Description:   "Proyecto de modernización de infraestructura y servicios core.",
			Technologies:  []string{"AWS", "Terraform", "React"},
			Logs:          []ProjectLog{},
			Repositories:  []Repository{},
		},
	}
}

func SeedGems() []Gem {
	return []Gem{
		{ID: "g1", URL: "https://gemini.google.com/gem/6257c452aac9", Name: "COTIZACIONES", Description: "Asistente experto en la generación y análisis de cotizaciones.", Icon: "fa-calculator"},
		{ID: "g2", URL: "https://gemini.google.com/gem/fa10051c004b", Name: "PIPELINES AZURE", Description: "Especialista en crear pipelines de Azure y archivos JSON.", Icon: "fa-cloud"},
	}
}

func SeedTools() []Tool {
	return []Tool{
		{ID: "t1", Name: "VS Code Web", URL: "https://vscode.dev", Icon: "fa-code", Color: "text-blue-500"},
		{ID: "t5", Name: "Gemini", URL: "https://gemini.google.com", Icon: "fa-gem", Color: "text-purple-500"},
	}
}

func SeedTrainingModules() []TrainingModule {
	return []TrainingModule{
		{
			ID:          "mod_1",
			Title:       "Módulo 1: Inducción AIWIS",
			Description: "Bienvenida a la cultura y herramientas de la empresa.",
			Order:       1,
			Videos: []TrainingVideo{
				{ID: "v1", Title: "Visión y Misión", URL: "https://www.youtube.com/watch?v=engvideo1", Duration: "10 min", Type: "video"},
				{ID: "v2", Title: "Uso del Portal", URL: "https://meet.google.com/abc-defg-hij", Duration: "45 min", Type: "meet"},
			},
		},
	}
}

// DefaultCompanyConfig is the branding applied before an admin customizes it.
func DefaultCompanyConfig() CompanyConfig {
	return CompanyConfig{Title: "PORTAL CORPORATIVO", Subtitle: "Centro de Capacitación"}
}

// DefaultCloudSyncConfig starts with mirroring disabled.
func DefaultCloudSyncConfig() CloudSyncConfig {
	return CloudSyncConfig{Provider: "postgres"}
}

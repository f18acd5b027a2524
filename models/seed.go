package models

// SeedFile is the YAML document loaded by the setup command.
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name      string         `yaml:"name"`
	Questions []SeedQuestion `yaml:"questions"`
}

type SeedQuestion struct {
	Question      string   `yaml:"question"`
	Answers       []string `yaml:"answers"`
	CorrectAnswer int      `yaml:"correct"`
}

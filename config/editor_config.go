package config

// EditorConfiguration Settings for the command-line editor, read from the environment
type EditorConfiguration struct {
	ServerURL     string `env:"GDS_SERVER_URL" envDefault:"http://localhost:8080"`
	TimeoutMillis int64  `env:"GDS_TIMEOUT" envDefault:"10000"`
	TitleTemplate string `env:"GDS_TITLE_TEMPLATE"`
}

package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

type Config struct {
	Jira struct {
		ServerURL string `yaml:"server_url"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		// Custom field identifiers drift between Jira deployments
		// (story points moved from customfield_10002 to _10408 once);
		// keeping them here means a rename touches only config.
		StoryPointsField string `yaml:"story_points_field"` // "customfield_10408"
		ImplementerField string `yaml:"implementer_field"`  // "customfield_11807"
	} `yaml:"jira"`

	Projects []model.Project `yaml:"projects"`

	Notify struct {
		RobotURL string `yaml:"robot_url"`
		RobotTag string `yaml:"robot_tag"`
	} `yaml:"notify"`

	Audit struct {
		WindowDays    int    `yaml:"window_days"`    // lookback, default 7
		QueryType     string `yaml:"query_type"`     // "created"|"resolutiondate"
		MaxConcurrent int    `yaml:"max_concurrent"` // parallel project fetches
	} `yaml:"audit"`

	Database struct {
		DSN string `yaml:"dsn"` // "./jiracheck.db"
	} `yaml:"database"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	API struct {
		Addr           string `yaml:"addr"`            // ":8480"
		SessionMinutes int    `yaml:"session_minutes"` // 720
	} `yaml:"api"`
}

func DefaultConfig() Config {
	var c Config
	c.Jira.StoryPointsField = "customfield_10408"
	c.Jira.ImplementerField = "customfield_11807"
	c.Audit.WindowDays = 7
	c.Audit.QueryType = "created"
	c.Audit.MaxConcurrent = 4
	c.Database.DSN = "./jiracheck.db"
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	c.API.Addr = ":8480"
	c.API.SessionMinutes = 720
	return c
}

func LoadConfig(path string) (Config, error) {
	// A .env beside the binary can carry credentials out of the YAML.
	_ = godotenv.Load()

	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("JIRACHECK_JIRA_URL"); v != "" {
		c.Jira.ServerURL = v
	}
	if v := os.Getenv("JIRACHECK_JIRA_USERNAME"); v != "" {
		c.Jira.Username = v
	}
	if v := os.Getenv("JIRACHECK_JIRA_PASSWORD"); v != "" {
		c.Jira.Password = v
	}
	if v := os.Getenv("JIRACHECK_ROBOT_URL"); v != "" {
		c.Notify.RobotURL = v
	}
	if v := os.Getenv("JIRACHECK_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JIRACHECK_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Audit.WindowDays = n
		}
	}
	if v := os.Getenv("JIRACHECK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("JIRACHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JIRACHECK_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}

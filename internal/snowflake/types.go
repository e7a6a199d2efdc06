package snowflake

import (
	"strings"

	sf "github.com/snowflakedb/gosnowflake"
)

// Config holds Snowflake connection settings
type Config struct {
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Warehouse string `yaml:"warehouse"`
	Role      string `yaml:"role"`
}

// DSN renders the config as a gosnowflake data source name.
func (c Config) DSN() (string, error) {
	return sf.DSN(&sf.Config{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Database:  c.Database,
		Schema:    c.Schema,
		Warehouse: c.Warehouse,
		Role:      c.Role,
	})
}

// ParseConnectionString extracts components from an ODBC-style string.
// Format: scheme=https;ACCOUNT=xxx;HOST=yyy;port=443;USER=zzz;PASSWORD=www;DB=aaa.bbb;WAREHOUSE=ccc;
// Keys are case-insensitive. DB may carry "database.schema".
func ParseConnectionString(connStr string) Config {
	parts := make(map[string]string)
	for _, kv := range strings.Split(connStr, ";") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		parts[strings.ToUpper(strings.TrimSpace(key))] = value
	}

	database, schema, _ := strings.Cut(parts["DB"], ".")

	return Config{
		Account:   parts["ACCOUNT"],
		User:      parts["USER"],
		Password:  parts["PASSWORD"],
		Database:  database,
		Schema:    schema,
		Warehouse: parts["WAREHOUSE"],
		Role:      parts["ROLE"],
	}
}

// Merge fills empty fields of c from other.
func (c Config) Merge(other Config) Config {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Account, other.Account)
	fill(&c.User, other.User)
	fill(&c.Password, other.Password)
	fill(&c.Database, other.Database)
	fill(&c.Schema, other.Schema)
	fill(&c.Warehouse, other.Warehouse)
	fill(&c.Role, other.Role)
	return c
}

// Totals are the summed figures for a client and period.
type Totals struct {
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
}

// ROAS is revenue over cost, or 0 when nothing was spent.
func (t Totals) ROAS() float64 {
	if t.Cost > 0 {
		return t.Revenue / t.Cost
	}
	return 0
}

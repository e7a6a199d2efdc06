package domain

// WarehouseLocation identifies where a client's ad and shop tables live.
// Tables are named GOOGLE_ADS_<TablePrefix> and SHOPIFY_<TablePrefix>.
type WarehouseLocation struct {
	Database    string `json:"database"`
	Schema      string `json:"schema"`
	TablePrefix string `json:"table_prefix"`
}

// ClientConfig is a client row together with its warehouse location.
type ClientConfig struct {
	ClientID   string  `json:"client_id" db:"client_id"`
	ClientName *string `json:"client_name" db:"client_name"`
	WarehouseLocation
}

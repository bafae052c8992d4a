package models

// All lists every persisted model in dependency order. The sqlite path
// auto-migrates from it; Postgres is migrated with goose.
func All() []any {
	return []any{
		&Listing{},
		&NightlyStat{},
		&MarketStat{},
		&AIRecommendation{},
		&UserAction{},
	}
}

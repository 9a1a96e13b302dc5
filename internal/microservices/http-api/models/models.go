package models

// All lists every persisted model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&User{},
		&Book{},
		&Library{},
		&Stock{},
		&Lending{},
		&Renewing{},
		&Holding{},
		&Reservation{},
		&Notification{},
	}
}

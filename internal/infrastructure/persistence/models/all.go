package models

// All lists every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{
		&UserSessionModel{},
		&InvalidationEventModel{},
		&ScheduledInvalidationModel{},
		&NotificationModel{},
		&UserProfileModel{},
		&PackageModel{},
		&UserPackageModel{},
		&TransactionModel{},
		&TradeModel{},
		&SignalModel{},
		&SecurityEventModel{},
	}
}

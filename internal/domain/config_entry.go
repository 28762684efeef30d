package domain

// ConfigEntry is a key/value application setting row.
type ConfigEntry struct {
	Setting string
	Value   string
}

// Well-known settings used by the seed routine and notification worker.
const (
	SettingCompanyName           = "CompanyName"
	SettingAddress               = "address"
	SettingPhone                 = "phone"
	SettingTimezone              = "timezone"
	SettingMaintenanceMode       = "maintenance_mode"
	SettingLanguage              = "language"
	SettingCurrency              = "currency"
	SettingEnableWhatsapp        = "enable_whatsapp"
	SettingWhatsappNotifications = "whatsapp_notifications"
)

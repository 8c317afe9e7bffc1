package db

// Config holds the connection and pool settings for the shared gorm
// handle. It is mapped from the application configuration by
// FromAppConfig so this package stays free of application concerns.
type Config struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

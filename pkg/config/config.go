package config

// Aora definition aora_service YAML structure
type Aora struct {
	Port string `mapstructure:"port"`
	IP   string `mapstructure:"ip"`

	// 對外呈現的平台識別，沿用行動端既有的設定鍵
	Endpoint  string `mapstructure:"endpoint"`
	Platform  string `mapstructure:"platform"`
	ProjectID string `mapstructure:"project_id"`

	// 會話有效時間，單位分鐘
	SessionTTL int `mapstructure:"session_ttl"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Mongo      MongoConfig    `mapstructure:"mongo"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
}

// MongoConfig definition document store setting
// DatabaseID 與兩個 collection 識別對應行動端設定
type MongoConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	DatabaseID       string `mapstructure:"database_id"`
	UserCollectionID string `mapstructure:"user_collection_id"`
	VideoCollection  string `mapstructure:"video_collection_id"`

	RetryInterval int `mapstructure:"retry_interval"`
	RetryCount    int `mapstructure:"retry_count"`
}

// MinIOConfig definition blob store setting
type MinIOConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	StorageID string `mapstructure:"storage_id"`
	UseSSL    bool   `mapstructure:"use_ssl"`

	RetryInterval int `mapstructure:"retry_interval"`
	RetryCount    int `mapstructure:"retry_count"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// api/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	CMS           CMSConfiguration
	Invites       InviteConfiguration
	Blob          BlobConfiguration
	Webhooks      WebhookConfiguration
	Auth          AuthConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// CMSConfiguration stores the upstream content service settings. An empty
// BaseURL means the CMS proxy endpoints answer 503.
type CMSConfiguration struct {
	BaseURL string
	Timeout string
}

// InviteConfiguration stores the outbound invite quota settings
type InviteConfiguration struct {
	MaxInvitesPerMonth int
}

// BlobConfiguration stores where team photo blobs are written
type BlobConfiguration struct {
	Dir string
}

// WebhookConfiguration stores the shared secret the identity provider sends
// on webhook calls
type WebhookConfiguration struct {
	Secret string
}

// AuthConfiguration stores the Cognito pool the bearer tokens are issued by
type AuthConfiguration struct {
	Cognito CognitoConfiguration
}

type CognitoConfiguration struct {
	AWSRegion  string `mapstructure:"aws_region"`
	UserPoolID string `mapstructure:"user_pool_id"`
	AdminGroup string `mapstructure:"admin_group"`
	ReadScope  string `mapstructure:"read_scope"`
	WriteScope string `mapstructure:"write_scope"`
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("log.file", "logging/api.log")
	viper.SetDefault("cms.baseUrl", "")
	viper.SetDefault("cms.timeout", "10s")
	viper.SetDefault("invites.maxInvitesPerMonth", 50)
	viper.SetDefault("blob.dir", "blobs")
	viper.SetDefault("webhooks.secret", "")
	viper.SetDefault("auth.cognito.admin_group", "site-admin")
	viper.SetDefault("auth.cognito.read_scope", "TrashMob.Read")
	viper.SetDefault("auth.cognito.write_scope", "TrashMob.Writes")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 retrieves a float64 value from the configuration
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

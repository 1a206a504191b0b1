package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowedOrigins"` // comma separated
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"` // e.g. "1h"
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Currency  string `mapstructure:"currency"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Stripe StripeConfig `mapstructure:"stripe"`
	S3     S3Config     `mapstructure:"s3"`
	Admin  AdminConfig  `mapstructure:"admin"`
}

// LoadConfig reads configuration from config.yaml and overrides it with
// environment variables. If the file does not exist, env vars alone are used.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.allowedOrigins", "ALLOWED_ORIGINS")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "ACCESS_TOKEN_SECRET")
	viper.BindEnv("jwt.expiration", "ACCESS_TOKEN_EXPIRATION")
	viper.BindEnv("stripe.secretKey", "STRIPE_SECRET_KEY")
	viper.BindEnv("stripe.currency", "STRIPE_CURRENCY")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("admin.email", "ADMIN_EMAIL")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")

	viper.SetDefault("server.port", "5000")
	viper.SetDefault("mongo.dbName", "campsDB")
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("stripe.currency", "usd")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}

package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"lockdown-service/internal/utils/runtime"
	"strings"
)

const (
	kafkaHostFlag      = "kafka-host"
	kafkaPortFlag      = "kafka-port"
	mongoDBURIFlag     = "mongodb-uri"
	directoryURLFlag   = "directory-url"
	directoryTokenFlag = "directory-token"
	developmentFlag    = "development"
	httpPortFlag       = "port"
)

type Config struct {
	Kafka     KafkaConfig
	MongoDB   MongoDBConfig
	Directory DirectoryConfig

	Development bool

	HTTPPort int
}

type KafkaConfig struct {
	Host string
	Port int
}

type MongoDBConfig struct {
	URI string
}

type DirectoryConfig struct {
	URL   string
	Token string
}

func LoadGlobalConfig() Config {
	viper.SetDefault(kafkaHostFlag, "localhost")
	viper.SetDefault(kafkaPortFlag, 9092)
	viper.SetDefault(mongoDBURIFlag, "mongodb://localhost:27017")
	viper.SetDefault(directoryURLFlag, "http://localhost:8090")
	viper.SetDefault(directoryTokenFlag, "")
	viper.SetDefault(developmentFlag, true)
	viper.SetDefault(httpPortFlag, 10030)

	pflag.String(kafkaHostFlag, viper.GetString(kafkaHostFlag), "Kafka host")
	pflag.Int32(kafkaPortFlag, viper.GetInt32(kafkaPortFlag), "Kafka port")
	pflag.String(mongoDBURIFlag, viper.GetString(mongoDBURIFlag), "MongoDB URI")
	pflag.String(directoryURLFlag, viper.GetString(directoryURLFlag), "Community directory base URL")
	pflag.String(directoryTokenFlag, viper.GetString(directoryTokenFlag), "Community directory auth token")
	pflag.Bool(developmentFlag, viper.GetBool(developmentFlag), "Development mode")
	pflag.Int32(httpPortFlag, viper.GetInt32(httpPortFlag), "HTTP port")
	pflag.Parse()

	// Bind the viper flags to environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	runtime.Must(viper.BindEnv(kafkaHostFlag))
	runtime.Must(viper.BindEnv(kafkaPortFlag))
	runtime.Must(viper.BindEnv(mongoDBURIFlag))
	runtime.Must(viper.BindEnv(directoryURLFlag))
	runtime.Must(viper.BindEnv(directoryTokenFlag))
	runtime.Must(viper.BindEnv(developmentFlag))
	runtime.Must(viper.BindEnv(httpPortFlag))

	return Config{
		Kafka: KafkaConfig{
			Host: viper.GetString(kafkaHostFlag),
			Port: int(viper.GetInt32(kafkaPortFlag)),
		},
		MongoDB: MongoDBConfig{
			URI: viper.GetString(mongoDBURIFlag),
		},
		Directory: DirectoryConfig{
			URL:   viper.GetString(directoryURLFlag),
			Token: viper.GetString(directoryTokenFlag),
		},
		Development: viper.GetBool(developmentFlag),
		HTTPPort:    int(viper.GetInt32(httpPortFlag)),
	}
}

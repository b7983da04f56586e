package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castflow/castflow/agent"
	"github.com/castflow/castflow/config"
	"github.com/castflow/castflow/logger"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "castflow", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline storage")
	cmd.Flags().Int("max-execution-depth", 10, "max depth of flow chains started by emitted events")
	cmd.Flags().Int("history-capacity", 50, "number of execution records retained in memory")
	cmd.Flags().Int("event-history-capacity", 100, "number of recent events retained in memory")
	cmd.Flags().Int("publish-buffer", 256, "buffer size of the notification feed")
	cmd.Flags().Int("ingest-capacity", 512, "event ingestion queue capacity")
	cmd.Flags().Int64("max-countdown-seconds", 3600, "upper bound accepted for countdown timers")
	cmd.Flags().String("execution-log", "", "file receiving one log line per flow execution")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.EngineConfig.MaxExecutionDepth = viper.GetInt("max-execution-depth")
	c.cfg.EngineConfig.HistoryCapacity = viper.GetInt("history-capacity")
	c.cfg.EngineConfig.EventHistoryCapacity = viper.GetInt("event-history-capacity")
	c.cfg.EngineConfig.PublishCapacity = viper.GetInt("publish-buffer")
	c.cfg.EngineConfig.IngestCapacity = viper.GetInt("ingest-capacity")
	c.cfg.SchedulerConfig.MaxCountdownSeconds = viper.GetInt64("max-countdown-seconds")
	c.cfg.ExecutionLogFile = viper.GetString("execution-log")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	if err := logger.InitLogger(); err != nil {
		return err
	}
	defer logger.Sync()

	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "castflow",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig      RedisStorageConfig
	EngineConfig     EngineConfig
	SchedulerConfig  SchedulerConfig
	HttpPort         int
	StorageType      StorageType
	ExecutionLogFile string
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type EngineConfig struct {
	MaxExecutionDepth    int
	HistoryCapacity      int
	EventHistoryCapacity int
	PublishCapacity      int
	IngestCapacity       int
}

type SchedulerConfig struct {
	MaxCountdownSeconds int64
	PollIntervalSeconds int
}

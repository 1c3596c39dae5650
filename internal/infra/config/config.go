package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig は環境変数（と任意の設定ファイル）を読み取りアプリ全体に渡す設定です。
type AppConfig struct {
	Port            string // HTTP ポート（未設定時は 8080）
	LogProvider     string // gcp | text
	LogLevel        string // -4 | 0 | 4 | 8 or debug/info/warn/error
	MaintenanceMode string // on | off

	DBDriver     string // sqlite
	SqliteSource string // local | gcs
	SqlitePath   string // explicit DB file, overrides SqliteSource
	MaxOpenConns int    // default 10
	MaxIdleConns int    // default 0: every released connection is closed

	StorageProvider string // gcs | dir | local(no-op)
	SqliteBucket    string // バケット名
	StorageDir      string // root for STORAGE_PROVIDER=dir
	SnapshotDir     string // local snapshot output when no bucket is configured
	SnapshotKeep    int    // local snapshots to keep; 0 keeps all

	PeriodicBackup       string // on | off (default off)
	PeriodicBackupMinute string // integer minutes (default 10)

	DeleteMode string // checked | atomic (default checked)
}

const (
	DeleteChecked = "checked"
	DeleteAtomic  = "atomic"
)

var keys = []string{
	"port", "log_provider", "log_level", "maintenance_mode",
	"db_driver", "sqlite_source", "sqlite_path", "max_open_conns", "max_idle_conns",
	"storage_provider", "sqlite_bucket", "storage_dir", "snapshot_dir", "snapshot_keep",
	"periodic_backup", "periodic_backup_minute", "delete_mode",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// AutomaticEnv only answers keys viper already knows about
		_ = v.BindEnv(k)
	}
	v.SetDefault("port", "8080")
	v.SetDefault("max_open_conns", 10)
	v.SetDefault("max_idle_conns", 0)
	v.SetDefault("delete_mode", DeleteChecked)
	return v
}

// NewFromEnv reads the configuration from environment variables only.
func NewFromEnv() AppConfig {
	return fromViper(newViper())
}

// Load reads path (yaml, toml or json) and lets environment variables
// override it. An empty path behaves like NewFromEnv.
func Load(path string) (AppConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) AppConfig {
	return AppConfig{
		Port:                 v.GetString("port"),
		LogProvider:          v.GetString("log_provider"),
		LogLevel:             v.GetString("log_level"),
		MaintenanceMode:      v.GetString("maintenance_mode"),
		DBDriver:             v.GetString("db_driver"),
		SqliteSource:         v.GetString("sqlite_source"),
		SqlitePath:           v.GetString("sqlite_path"),
		MaxOpenConns:         v.GetInt("max_open_conns"),
		MaxIdleConns:         v.GetInt("max_idle_conns"),
		StorageProvider:      v.GetString("storage_provider"),
		SqliteBucket:         v.GetString("sqlite_bucket"),
		StorageDir:           v.GetString("storage_dir"),
		SnapshotDir:          v.GetString("snapshot_dir"),
		SnapshotKeep:         v.GetInt("snapshot_keep"),
		PeriodicBackup:       v.GetString("periodic_backup"),
		PeriodicBackupMinute: v.GetString("periodic_backup_minute"),
		DeleteMode:           strings.ToLower(v.GetString("delete_mode")),
	}
}

func (c AppConfig) Validate() error {
	switch c.DeleteMode {
	case DeleteChecked, DeleteAtomic:
	default:
		return fmt.Errorf("delete_mode must be %q or %q, got %q", DeleteChecked, DeleteAtomic, c.DeleteMode)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max_idle_conns must not be negative")
	}
	if c.SnapshotKeep < 0 {
		return fmt.Errorf("snapshot_keep must not be negative")
	}
	return nil
}

// SnapshotEnabled はオブジェクトストレージへのスナップショット同期を有効化すべきかの判定です。
func (c AppConfig) SnapshotEnabled() bool {
	return (c.StorageProvider == "gcs" || c.StorageProvider == "dir") && c.SqliteBucket != ""
}

// Maintenance reports MAINTENANCE_MODE=on.
func (c AppConfig) Maintenance() bool { return c.MaintenanceMode == "on" }

// AtomicDelete reports whether deletes run check+delete in one transaction.
func (c AppConfig) AtomicDelete() bool { return c.DeleteMode == DeleteAtomic }

// PeriodicBackupEnabled は定期バックアップが有効か判定します（既定は off）。
func (c AppConfig) PeriodicBackupEnabled() bool { return c.PeriodicBackup == "on" }

// PeriodicBackupIntervalMinutes は間隔（分）を返します（未設定は 10）。
func (c AppConfig) PeriodicBackupIntervalMinutes() int {
	if c.PeriodicBackupMinute == "" {
		return 10
	}
	// 変換失敗時も既定値
	var n int
	_, _ = fmt.Sscanf(c.PeriodicBackupMinute, "%d", &n)
	if n <= 0 {
		return 10
	}
	return n
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "github.com/kawabatas/olympics-catalog/internal/app/http"
	"github.com/kawabatas/olympics-catalog/internal/app/usecase"
	"github.com/kawabatas/olympics-catalog/internal/httpx"
	"github.com/kawabatas/olympics-catalog/internal/infra/config"
	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
	sqlitestrat "github.com/kawabatas/olympics-catalog/internal/infra/datastore/sqlite"
	"github.com/kawabatas/olympics-catalog/internal/infra/platform/logger"
	storageif "github.com/kawabatas/olympics-catalog/internal/infra/storage"
	gcsstore "github.com/kawabatas/olympics-catalog/internal/infra/storage/gcs"
	localstore "github.com/kawabatas/olympics-catalog/internal/infra/storage/local"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	lvl := logger.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(httpx.ContextHandler{Handler: logger.New(cfg.LogProvider, lvl).Handler()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var objStore storageif.ObjectStore = localstore.Noop{}
	switch cfg.StorageProvider {
	case "gcs":
		objStore = &gcsstore.Adapter{}
	case "dir":
		objStore = localstore.Dir{Root: cfg.StorageDir}
	}

	// スナップショット戦略（SQLite のみ）を選択
	var strat datastore.SnapshotStrategy = datastore.NoopSnapshotStrategy{}
	if cfg.DBDriver == "" || cfg.DBDriver == "sqlite" {
		switch {
		case cfg.SnapshotEnabled():
			strat = sqlitestrat.GCSSnapshotStrategy{ObjectStore: objStore, Bucket: cfg.SqliteBucket}
		case cfg.SnapshotDir != "":
			strat = sqlitestrat.LocalSnapshotStrategy{OutputDir: cfg.SnapshotDir, Keep: cfg.SnapshotKeep}
		}
	}
	ds, err := datastore.Open(ctx, datastore.Config{Driver: cfg.DBDriver, Source: cfg.SqliteSource, Path: cfg.SqlitePath, Strategy: strat})
	if err != nil {
		log.Fatalf("datastore open error: %v", err)
	}
	// 接続プール設定: アイドル 0 で 1 操作ごとに接続を閉じる
	ds.SetConnPool(cfg.MaxOpenConns, cfg.MaxIdleConns)
	defer ds.Close()

	if cfg.PeriodicBackupEnabled() {
		every := time.Duration(cfg.PeriodicBackupIntervalMinutes()) * time.Minute
		go datastore.RunPeriodicSnapshot(ctx, ds, every, func(err error) {
			slog.ErrorContext(ctx, "periodic snapshot failed", slog.Any("error", err))
		})
	}

	mux := http.NewServeMux()
	apphttp.Register(mux, ds, usecase.WithAtomicDelete(cfg.AtomicDelete()))

	handler := httpx.LoggingMiddleware(httpx.MaintenanceMiddleware(cfg.Maintenance, httpx.RecoverMiddleware(mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           http.TimeoutHandler(handler, 5*time.Second, "timeout"),
		ReadHeaderTimeout: 500 * time.Millisecond,
		ReadTimeout:       2 * time.Second, // 写真アップロードを考慮
		IdleTimeout:       time.Second,
	}

	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr), slog.String("delete_mode", cfg.DeleteMode))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		slog.Info("server stopped accepting new conns")
	}()

	// シャットダウン待受け
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
	slog.Info("graceful shutdown complete")
}

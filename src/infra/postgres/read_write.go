package postgres

import (
	"context"
	"fmt"
	"starwarsproxy/src/helper/env"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/multierr"
)

// Config descreve o par primário/réplica. Sem host de leitura, a réplica é o
// próprio primário.
type Config struct {
	WriteHost      string
	WritePort      string
	ReadHost       string
	ReadPort       string
	DBName         string
	Username       string
	Password       string
	MaxConnections int
}

// ConfigFromEnv lê <prefix>DB_WRITE_HOST, <prefix>DB_READ_HOST etc. O prefixo
// vazio é o da aplicação; as specs de integração usam "TEST_".
func ConfigFromEnv(prefix string, defaultMaxConnections int) Config {
	writeHost := env.MustGetString(prefix + "DB_WRITE_HOST")

	return Config{
		WriteHost:      writeHost,
		WritePort:      env.GetString(prefix+"DB_WRITE_PORT", "5432"),
		ReadHost:       env.GetString(prefix+"DB_READ_HOST", writeHost),
		ReadPort:       env.GetString(prefix+"DB_READ_PORT", "5432"),
		DBName:         env.MustGetString(prefix + "DB_NAME"),
		Username:       env.MustGetString(prefix + "DB_USER"),
		Password:       env.MustGetString(prefix + "DB_PASSWORD"),
		MaxConnections: env.GetInt(prefix+"DB_MAX_POOL_CONNECTIONS", defaultMaxConnections),
	}
}

// ReadWriteClient separa leituras (réplica) de escritas (primário).
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(cfg Config) (*ReadWriteClient, error) {
	writePool, err := NewPostgresClient(cfg.WriteHost, cfg.WritePort, cfg.DBName, cfg.Username, cfg.Password, cfg.MaxConnections)
	if err != nil {
		return nil, fmt.Errorf("write pool: %w", err)
	}

	readPool, err := NewPostgresClient(cfg.ReadHost, cfg.ReadPort, cfg.DBName, cfg.Username, cfg.Password, cfg.MaxConnections)
	if err != nil {
		writePool.Close()
		return nil, fmt.Errorf("read pool: %w", err)
	}

	return &ReadWriteClient{readPool: readPool, writePool: writePool}, nil
}

func (rwc *ReadWriteClient) Read() *pgxpool.Pool {
	return rwc.readPool
}

func (rwc *ReadWriteClient) Write() *pgxpool.Pool {
	return rwc.writePool
}

// Ping verifica os dois pools e devolve todas as falhas juntas.
func (rwc *ReadWriteClient) Ping(ctx context.Context) error {
	return multierr.Combine(
		wrapPing("write", rwc.writePool.Ping(ctx)),
		wrapPing("read", rwc.readPool.Ping(ctx)),
	)
}

// A migração roda sempre no primário.
func (rwc *ReadWriteClient) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, rwc.writePool)
}

func (rwc *ReadWriteClient) Close() {
	rwc.readPool.Close()
	rwc.writePool.Close()
}

func wrapPing(pool string, err error) error {
	if err != nil {
		return fmt.Errorf("%s pool ping failed: %w", pool, err)
	}
	return nil
}

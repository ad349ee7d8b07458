package test_seeder

import (
	"context"
	"fmt"
	"starwarsproxy/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestSeeder escreve direto no banco, por fora dos repositórios, para montar
// cenários com timestamps controlados.
type TestSeeder struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) TestSeeder {
	return TestSeeder{pool: pool}
}

// Reset cria o schema se preciso e esvazia a tabela records.
func (ts TestSeeder) Reset(ctx context.Context) {
	if err := postgres.EnsureSchema(ctx, ts.pool); err != nil {
		panic(fmt.Sprintf("Seeder.Reset schema failed: %v", err))
	}

	if _, err := ts.pool.Exec(ctx, "TRUNCATE TABLE records"); err != nil {
		panic(fmt.Sprintf("Seeder.Reset truncate failed: %v", err))
	}
}

package mysql

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "mysql",
			DisplayName: "MySQL",
			DefaultPort: DefaultPort,
		},
		QueryExecutorFactory: func(ctx context.Context, cfg *datasource.Config, logger *zap.Logger) (datasource.QueryExecutor, error) {
			e, err := NewQueryExecutor(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	})
}

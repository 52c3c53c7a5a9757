package bot

import (
	"context"

	"github.com/shopspring/decimal"

	"marketbot/internal/alert"
	"marketbot/internal/news"
	"marketbot/internal/provider"
)

// Quotes is the quote gateway as seen by the commands.
//
//go:generate mockgen -package=bot_test -destination=mock_deps_test.go -source=deps.go
type Quotes interface {
	SpotPrice(ctx context.Context, symbol string) (provider.Quote, error)
	History(ctx context.Context, symbol string, days int) (provider.Series, error)
}

type News interface {
	Search(ctx context.Context, keyword string, page, pageSize int) ([]news.Article, error)
}

type Charts interface {
	RenderSeries(s provider.Series) ([]byte, error)
}

type Alerts interface {
	SetWatch(ctx context.Context, subscriberID int64, symbol string, target decimal.Decimal) (alert.Watch, error)
	ClearWatch(ctx context.Context, subscriberID int64) (bool, error)
	Watch(ctx context.Context, subscriberID int64) (alert.Watch, bool, error)
}

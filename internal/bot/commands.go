package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketbot/internal/news"
	"marketbot/internal/quote"
)

// ForexSymbol is a base currency listed by /symbols and priced against TRY.
type ForexSymbol struct {
	Base string
	Name string
}

var (
	DefaultCrypto = []string{"BTCUSDT", "ETHUSDT", "XRPUSDT", "LTCUSDT", "BCHUSDT", "DOGEUSDT", "ADAUSDT", "SOLUSDT"}
	DefaultForex  = []ForexSymbol{
		{"USD", "Amerikan Doları (USD)"},
		{"EUR", "Euro (EUR)"},
		{"GBP", "İngiliz Sterlini (GBP)"},
		{"JPY", "Japon Yeni (JPY)"},
		{"CHF", "İsviçre Frangı (CHF)"},
		{"AUD", "Avustralya Doları (AUD)"},
		{"CAD", "Kanada Doları (CAD)"},
		{"BTC", "Bitcoin (BTC)"},
		{"ETH", "Ethereum (ETH)"},
		{"NZD", "Yeni Zelanda Doları (NZD)"},
	}
)

// Conversion results are quoted in USDT for exchange pairs and TRY otherwise.
const (
	cryptoConvertCurrency = "USDT"
	forexConvertCurrency  = "TRY"
)

// Deps are the collaborators the commands call into.
type Deps struct {
	Quotes Quotes
	News   News
	Charts Charts
	Alerts Alerts

	Crypto []string
	Forex  []ForexSymbol
	// ChartDays is the lookback of /stock and /plot_stock charts.
	ChartDays int
	// NewsPageSize is how many articles are requested; NewsLimit how many are shown.
	NewsPageSize int
	NewsLimit    int
}

type commands struct {
	Deps
	log *logrus.Entry
}

// New builds a dispatcher with every bot command registered.
func New(deps Deps, log *logrus.Entry) (*Dispatcher, error) {
	if deps.Crypto == nil {
		deps.Crypto = DefaultCrypto
	}
	if deps.Forex == nil {
		deps.Forex = DefaultForex
	}
	if deps.ChartDays <= 0 {
		deps.ChartDays = 5
	}
	if deps.NewsPageSize <= 0 {
		deps.NewsPageSize = news.DefaultPageSize
	}
	if deps.NewsLimit <= 0 {
		deps.NewsLimit = 5
	}

	d := NewDispatcher(log)
	c := &commands{Deps: deps, log: d.log}

	for _, cmd := range []Command{
		{Name: "start", Description: "Botu başlatır ve hoş geldiniz mesajı gönderir", MaxArgs: Unlimited, Handler: c.start},
		{Name: "help", Description: "Yardım mesajını gösterir", MaxArgs: Unlimited, Handler: func(context.Context, Request, []string) (Response, error) {
			return textResponse(helpText(d.Commands())), nil
		}},
		{Name: "stock", Description: "Bir sembolün fiyatını ve 5 günlük grafiğini gösterir", Usage: "<sembol>", Example: "/stock BTCUSDT", MinArgs: 1, MaxArgs: 1, Handler: c.stock},
		{Name: "news", Description: "Anahtar kelimeyle ilgili borsa haberlerini getirir", Usage: "<anahtar kelime>", Example: "/news Bitcoin", MinArgs: 1, MaxArgs: Unlimited, Handler: c.news},
		{Name: "symbols", Description: "Desteklenen döviz ve kripto sembollerini listeler", MaxArgs: Unlimited, Handler: c.symbols},
		{Name: "set_alert", Description: "Bir sembol için fiyat bildirimi ayarlar", Usage: "<sembol> <fiyat>", Example: "/set_alert BTCUSDT 50000", MinArgs: 2, MaxArgs: 2, Handler: c.setAlert},
		{Name: "my_alert", Description: "Aktif fiyat bildiriminizi gösterir", Handler: c.myAlert},
		{Name: "clear_alert", Description: "Aktif fiyat bildiriminizi siler", Handler: c.clearAlert},
		{Name: "plot_stock", Description: "Bir sembolün fiyat hareket grafiğini gönderir", Usage: "<sembol>", Example: "/plot_stock BTCUSDT", MinArgs: 1, MaxArgs: 1, Handler: c.plotStock},
		{Name: "convert_currency", Description: "Döviz veya kripto para dönüşümü yapar", Usage: "<miktar> <sembol>", Example: "/convert_currency 40 USDTRY", MinArgs: 2, MaxArgs: 2, Handler: c.convert},
	} {
		if err := d.Register(cmd); err != nil {
			return nil, err
		}
	}
	return d, nil
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

func parseSymbol(arg string) (string, error) {
	s := quote.Normalize(arg)
	if !symbolPattern.MatchString(s) {
		return "", invalid(msgInvalidSymbol)
	}
	return s, nil
}

// Numeric arguments are bounded before any arithmetic: a short input such
// as 1e2000000000 parses fine but rescales to billions of digits.
const (
	maxNumberLen      = 40
	maxNumberDigits   = 30
	maxNumberExponent = 18
)

// parsePositive accepts both "32.5" and "32,5".
func parsePositive(arg, msg string) (decimal.Decimal, error) {
	arg = strings.TrimSpace(arg)
	if len(arg) > maxNumberLen {
		return decimal.Decimal{}, invalid(msg)
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(arg, ",", "."))
	if err != nil || !v.IsPositive() {
		return decimal.Decimal{}, invalid(msg)
	}
	if exp := v.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent || v.NumDigits() > maxNumberDigits {
		return decimal.Decimal{}, invalid(msg)
	}
	return v, nil
}

func (c *commands) start(context.Context, Request, []string) (Response, error) {
	return textResponse(msgStart), nil
}

func (c *commands) stock(ctx context.Context, _ Request, args []string) (Response, error) {
	symbol, err := parseSymbol(args[0])
	if err != nil {
		return Response{}, err
	}
	q, err := c.Quotes.SpotPrice(ctx, symbol)
	if err != nil {
		return Response{}, err
	}

	resp := textResponse(spotText(q))
	img, err := c.chart(ctx, symbol)
	if err != nil {
		// The price is already useful; the error reply follows it.
		return resp, err
	}
	resp.add(Reply{Image: img})
	return resp, nil
}

func (c *commands) plotStock(ctx context.Context, _ Request, args []string) (Response, error) {
	symbol, err := parseSymbol(args[0])
	if err != nil {
		return Response{}, err
	}
	img, err := c.chart(ctx, symbol)
	if err != nil {
		return Response{}, err
	}
	return Response{Replies: []Reply{{Image: img}}}, nil
}

func (c *commands) chart(ctx context.Context, symbol string) ([]byte, error) {
	s, err := c.Quotes.History(ctx, symbol, c.ChartDays)
	if err != nil {
		return nil, err
	}
	return c.Charts.RenderSeries(s)
}

func (c *commands) news(ctx context.Context, _ Request, args []string) (Response, error) {
	keyword := strings.Join(args, " ")
	articles, err := c.News.Search(ctx, keyword, news.DefaultPage, c.NewsPageSize)
	var ue *news.UnavailableError
	if errors.As(err, &ue) {
		c.log.WithError(err).WithField("keyword", keyword).Warn("news search failed")
		articles, err = nil, nil
	}
	if err != nil {
		return Response{}, err
	}
	if len(articles) == 0 {
		return textResponse(msgNoNews), nil
	}
	return textResponse(newsText(keyword, articles, c.NewsLimit)), nil
}

// symbols lists the static crypto pairs and every forex base whose TRY rate
// can be fetched right now.
func (c *commands) symbols(ctx context.Context, _ Request, _ []string) (Response, error) {
	priced := make([]*pricedForex, len(c.Forex))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range c.Forex {
		g.Go(func() error {
			q, err := c.Quotes.SpotPrice(gctx, f.Base+forexConvertCurrency)
			if err != nil {
				c.log.WithError(err).WithField("symbol", f.Base).Debug("forex rate unavailable")
				return nil
			}
			priced[i] = &pricedForex{ForexSymbol: f, Quote: q}
			return nil
		})
	}
	_ = g.Wait()

	listed := make([]pricedForex, 0, len(priced))
	for _, p := range priced {
		if p != nil {
			listed = append(listed, *p)
		}
	}
	return Response{Replies: []Reply{{Text: symbolsHTML(c.Crypto, listed), HTML: true}}}, nil
}

func (c *commands) setAlert(ctx context.Context, req Request, args []string) (Response, error) {
	symbol, err := parseSymbol(args[0])
	if err != nil {
		return Response{}, err
	}
	target, err := parsePositive(args[1], msgInvalidPrice)
	if err != nil {
		return Response{}, err
	}
	w, err := c.Alerts.SetWatch(ctx, req.UserID, symbol, target)
	if err != nil {
		return Response{}, err
	}
	return textResponse(alertSetText(w)), nil
}

func (c *commands) myAlert(ctx context.Context, req Request, _ []string) (Response, error) {
	w, ok, err := c.Alerts.Watch(ctx, req.UserID)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return textResponse(msgNoAlert), nil
	}
	return textResponse(alertShowText(w)), nil
}

func (c *commands) clearAlert(ctx context.Context, req Request, _ []string) (Response, error) {
	ok, err := c.Alerts.ClearWatch(ctx, req.UserID)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return textResponse(msgNoAlert), nil
	}
	return textResponse(msgAlertCleared), nil
}

func (c *commands) convert(ctx context.Context, _ Request, args []string) (Response, error) {
	amount, err := parsePositive(args[0], msgInvalidAmount)
	if err != nil {
		return Response{}, err
	}
	symbol, err := parseSymbol(args[1])
	if err != nil {
		return Response{}, err
	}
	q, err := c.Quotes.SpotPrice(ctx, symbol)
	if err != nil {
		return Response{}, err
	}
	currency := forexConvertCurrency
	if quote.Classify(symbol) == quote.Crypto {
		currency = cryptoConvertCurrency
	}
	return textResponse(convertText(amount, symbol, amount.Mul(q.Price), currency)), nil
}

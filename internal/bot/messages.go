package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"marketbot/internal/alert"
	"marketbot/internal/news"
	"marketbot/internal/provider"
	"marketbot/internal/quote"
)

const (
	msgStart           = "👋 Merhaba! Ben borsa takip botuyum. Komutları görmek için /help kullanabilirsiniz."
	msgHint            = "ℹ️ Komutları görmek için /help yazabilirsiniz."
	msgUnknownCommand  = "❓ Bilinmeyen komut. Komutları görmek için /help yazabilirsiniz."
	msgInvalidPrice    = "⚠ Lütfen geçerli bir fiyat girin."
	msgInvalidAmount   = "⚠ Lütfen geçerli bir miktar girin."
	msgInvalidSymbol   = "⚠ Geçersiz sembol. Örneğin: BTCUSDT veya USDTRY"
	msgNoNews          = "🚫 Bu anahtar kelime ile ilgili borsa haberi bulunamadı."
	msgNewsUnavailable = "❌ Haberler şu anda alınamıyor."
	msgNoChartData     = "⚠ Grafik için veri bulunamadı."
	msgRegistryFull    = "⏳ Bildirim kapasitesi dolu. Lütfen daha sonra tekrar deneyin."
	msgTimeout         = "⌛ İstek zaman aşımına uğradı. Lütfen tekrar deneyin."
	msgInternalError   = "❌ Bir hata oluştu."
	msgDone            = "✅ Tamam."
	msgAlertCleared    = "🗑 Fiyat bildiriminiz silindi."
	msgNoAlert         = "ℹ️ Aktif bir fiyat bildiriminiz yok."
)

// HintText is the reply to free text in private chats.
const HintText = msgHint

func quoteUnavailable(symbol string) string {
	return fmt.Sprintf("⚠ %s için veri alınamadı. Lütfen sembolü kontrol edin.", symbol)
}

func spotText(q provider.Quote) string {
	icon := "💸"
	if quote.Classify(q.Symbol) == quote.Crypto {
		icon = "💰"
	}
	return fmt.Sprintf("%s %s güncel fiyatı: %s %s", icon, q.Symbol, q.Price.StringFixed(2), q.Currency)
}

func newsText(keyword string, articles []news.Article, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 %s ile ilgili borsa haberleri:\n", keyword)
	for i, a := range articles {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s\n🔗 Link: %s\n", i+1, a.Title, a.URL)
	}
	return b.String()
}

type pricedForex struct {
	ForexSymbol
	Quote provider.Quote
}

func symbolsHTML(crypto []string, forex []pricedForex) string {
	var b strings.Builder
	b.WriteString("💎 Desteklenen Kripto Semboller:\n")
	for _, s := range crypto {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(s))
	}
	b.WriteString("\n<b>💰 Döviz Semboller (TRY cinsinden):</b>\n")
	for _, f := range forex {
		fmt.Fprintf(&b, "• %s - %s: %s TRY\n",
			html.EscapeString(f.Base), html.EscapeString(f.Name), f.Quote.Price.StringFixed(2))
	}
	b.WriteString("\n🔗 Daha fazla kripto verisi için <a href=\"https://www.binance.com\">Binance</a> sitesini ziyaret edebilirsiniz.")
	return b.String()
}

func convertText(amount decimal.Decimal, symbol string, converted decimal.Decimal, currency string) string {
	return fmt.Sprintf("💰 %s %s = %s %s", amount.String(), symbol, converted.StringFixed(2), currency)
}

func alertSetText(w alert.Watch) string {
	return fmt.Sprintf("✅ %s için %s fiyatında bir bildirim ayarlandı.", w.Symbol, w.Target.String())
}

func alertShowText(w alert.Watch) string {
	return fmt.Sprintf("⏰ Aktif bildirim: %s fiyatı %s seviyesine ulaştığında haber verilecek (%s UTC).",
		w.Symbol, w.Target.String(), w.CreatedAt.Format("02.01.2006 15:04"))
}

func helpText(cmds []Command) string {
	var b strings.Builder
	b.WriteString("📜 Borsa Takip Botu Komutları:\n\n")
	for _, c := range cmds {
		line := "/" + c.Name
		if c.Usage != "" {
			line += " " + c.Usage
		}
		fmt.Fprintf(&b, "%s - %s", line, c.Description)
		if c.Example != "" {
			fmt.Fprintf(&b, " Örnek: %s", c.Example)
		}
		b.WriteString("\n")
	}
	return b.String()
}

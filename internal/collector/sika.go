package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// historyStart bounds the GetHistorique request; the exchange opened its
// electronic quotation in the late 90s but Sika's archive starts in 2010.
const historyStart = "2010-01-01"

// SikaFetcher implements Fetcher against the Sika Finance site: HTML
// quotation board, JSON history API, HTML company pages for dividends.
type SikaFetcher struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

// NewSikaFetcher creates a new fetcher with optional proxy support.
func NewSikaFetcher(baseURL, proxyURL string) *SikaFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &SikaFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (f *SikaFetcher) Name() string { return "sika" }

func (f *SikaFetcher) get(path string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", f.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sika fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sika fetch %s: status %d", path, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sika parse %s: %w", path, err)
	}
	return doc, nil
}

// FetchListing scrapes the BRVM quotation board.
func (f *SikaFetcher) FetchListing() ([]model.Listing, error) {
	doc, err := f.get("/marches/cotations-brvm")
	if err != nil {
		return nil, err
	}

	var listings []model.Listing
	doc.Find("table.table-cotation tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return // header or malformed row
		}
		symbol := cleanText(cells.Eq(0).Text())
		if symbol == "" {
			return
		}
		listings = append(listings, model.Listing{
			Symbol: symbol,
			Name:   cleanText(cells.Eq(1).Text()),
			Sector: cleanText(cells.Eq(2).Text()),
		})
	})
	if len(listings) == 0 {
		return nil, fmt.Errorf("sika listing: no quotation rows found")
	}
	return listings, nil
}

// sikaHistory is the GetHistorique API response shape.
type sikaHistory struct {
	Intraday []sikaRow `json:"intraday"`
}

type sikaRow struct {
	Date      string  `json:"date"`
	Ouverture float64 `json:"ouverture"`
	PlusHaut  float64 `json:"plus_haut"`
	PlusBas   float64 `json:"plus_bas"`
	Cloture   float64 `json:"cloture"`
	Volume    float64 `json:"volume"`
}

// FetchHistory calls the GetHistorique JSON API for the full archive.
func (f *SikaFetcher) FetchHistory(symbol string) ([]model.Bar, error) {
	payload, err := json.Marshal(map[string]string{
		"ticker":    symbol,
		"dateDebut": historyStart,
		"dateFin":   f.Now().Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", f.BaseURL+"/api/general/GetHistorique", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sika history %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sika history %s: read body: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sika history %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	var hist sikaHistory
	if err := json.Unmarshal(body, &hist); err != nil {
		return nil, fmt.Errorf("sika history %s: decode: %w", symbol, err)
	}
	if len(hist.Intraday) == 0 {
		return nil, fmt.Errorf("sika history %s: no data returned", symbol)
	}

	bars := make([]model.Bar, 0, len(hist.Intraday))
	for _, row := range hist.Intraday {
		date, err := parseSikaDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("sika history %s: %w", symbol, err)
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   decimal.NewFromFloat(row.Ouverture),
			High:   decimal.NewFromFloat(row.PlusHaut),
			Low:    decimal.NewFromFloat(row.PlusBas),
			Close:  decimal.NewFromFloat(row.Cloture),
			Volume: int64(row.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// FetchDividends scrapes per-year dividends from the company page tables.
func (f *SikaFetcher) FetchDividends(symbol string) ([]model.Dividend, error) {
	doc, err := f.get("/bourse/societe/" + url.PathEscape(symbol))
	if err != nil {
		return nil, err
	}

	var dividends []model.Dividend
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		text := table.Text()
		if !containsAny(text, "Dividende", "DPA", "Div/Action") {
			return
		}
		table.Find("tr").Each(func(j int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			match := yearRe.FindString(cells.Eq(0).Text())
			if match == "" {
				return
			}
			year, _ := strconv.Atoi(match)
			amount, err := parseFrenchDecimal(cells.Eq(1).Text())
			if err != nil {
				return // dash or blank cell, no dividend that year
			}
			dividends = append(dividends, model.Dividend{Symbol: symbol, Year: year, Amount: amount})
		})
	})
	return dividends, nil
}

// FetchFundamentals scrapes market capitalization and PER from the
// company-page key-figure rows.
func (f *SikaFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	doc, err := f.get("/bourse/societe/" + url.PathEscape(symbol))
	if err != nil {
		return nil, err
	}

	fund := &model.Fundamentals{Symbol: symbol}
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := cleanText(cells.Eq(0).Text())
		switch {
		case strings.Contains(label, "Capitalisation"):
			if v, err := parseFrenchDecimal(cells.Eq(1).Text()); err == nil {
				fund.MarketCap = v.InexactFloat64()
			}
		case strings.HasPrefix(label, "PER"):
			if v, err := parseFrenchDecimal(cells.Eq(1).Text()); err == nil {
				fund.PER = v.InexactFloat64()
			}
		}
	})
	if fund.MarketCap == 0 && fund.PER == 0 {
		return nil, fmt.Errorf("sika fundamentals %s: no figures found", symbol)
	}
	return fund, nil
}

func parseSikaDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

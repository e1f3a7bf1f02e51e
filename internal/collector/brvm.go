package collector

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// BRVMFetcher implements Fetcher by scraping the exchange's official site.
// It carries no dividend data; the sika source covers that.
type BRVMFetcher struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

// NewBRVMFetcher creates a new fetcher with optional proxy support.
func NewBRVMFetcher(baseURL, proxyURL string) *BRVMFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BRVMFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (f *BRVMFetcher) Name() string { return "brvm" }

func (f *BRVMFetcher) get(path string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", f.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brvm fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brvm fetch %s: status %d", path, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("brvm parse %s: %w", path, err)
	}
	return doc, nil
}

// FetchListing scrapes the official quotation page. The official board
// carries no sector column; classification falls back to the sector table.
func (f *BRVMFetcher) FetchListing() ([]model.Listing, error) {
	doc, err := f.get("/fr/cours-actions/0")
	if err != nil {
		return nil, err
	}

	var listings []model.Listing
	doc.Find("table.table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		symbol := cleanText(cells.Eq(0).Text())
		if symbol == "" {
			return
		}
		listings = append(listings, model.Listing{
			Symbol: symbol,
			Name:   cleanText(cells.Eq(1).Text()),
		})
	})
	if len(listings) == 0 {
		return nil, fmt.Errorf("brvm listing: no quotation rows found")
	}
	return listings, nil
}

// FetchHistory scrapes the per-symbol history table. Rows carry
// DD/MM/YYYY dates and French-formatted numbers.
func (f *BRVMFetcher) FetchHistory(symbol string) ([]model.Bar, error) {
	path := fmt.Sprintf("/fr/historique/%s?start=%s&end=%s",
		url.PathEscape(symbol), historyStart, f.Now().Format("2006-01-02"))
	doc, err := f.get(path)
	if err != nil {
		return nil, err
	}

	var bars []model.Bar
	var rowErr error
	doc.Find("table.table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return true
		}
		bar, err := parseHistoryRow(cells)
		if err != nil {
			rowErr = fmt.Errorf("brvm history %s: row %d: %w", symbol, i+1, err)
			return false
		}
		bars = append(bars, bar)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("brvm history %s: no data returned", symbol)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// FetchDividends is not available on the official site.
func (f *BRVMFetcher) FetchDividends(string) ([]model.Dividend, error) {
	return nil, nil
}

// FetchFundamentals is not available on the official site.
func (f *BRVMFetcher) FetchFundamentals(string) (*model.Fundamentals, error) {
	return nil, nil
}

func parseHistoryRow(cells *goquery.Selection) (model.Bar, error) {
	date, err := time.Parse("02/01/2006", cleanText(cells.Eq(0).Text()))
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse date %q: %w", cells.Eq(0).Text(), err)
	}
	open, err := parseFrenchDecimal(cells.Eq(1).Text())
	if err != nil {
		return model.Bar{}, err
	}
	high, err := parseFrenchDecimal(cells.Eq(2).Text())
	if err != nil {
		return model.Bar{}, err
	}
	low, err := parseFrenchDecimal(cells.Eq(3).Text())
	if err != nil {
		return model.Bar{}, err
	}
	closePrice, err := parseFrenchDecimal(cells.Eq(4).Text())
	if err != nil {
		return model.Bar{}, err
	}
	volume, err := parseFrenchInt(cells.Eq(5).Text())
	if err != nil {
		return model.Bar{}, err
	}
	return model.Bar{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

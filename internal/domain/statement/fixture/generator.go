// Package fixture generates synthetic statement page text together with the
// transactions a correct parser must recover from it.
package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// Statement is a generated document.
type Statement struct {
	Pages    []string
	Expected []statement.Transaction
}

// Generator builds statements from a gofakeit source.
type Generator struct {
	faker *gofakeit.Faker
	start time.Time
}

// NewGenerator creates a generator with a fixed seed, so runs are reproducible.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		start: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Statement generates a document of pages pages with perPage transaction blocks
// each. Some blocks have no amount on their header line and are not expected.
func (g *Generator) Statement(pages, perPage int) Statement {
	var st Statement
	lp := 0
	balance := int64(g.faker.Number(100000, 5000000))

	for p := 1; p <= pages; p++ {
		lines := []string{
			"Bank Przykładowy S.A.",
			fmt.Sprintf("Wyciąg nr %d/2025 za okres 01.09.2025 - 30.09.2025", p),
			"Lp. Data Kontrahent / Tytuł Kwota Saldo",
		}

		for i := 0; i < perPage; i++ {
			lp++
			date := g.start.AddDate(0, 0, lp/3).Format("02.01.2006")

			if g.faker.Number(1, 10) == 1 {
				lines = append(lines, fmt.Sprintf("%d %s Blokada środków %s", lp, date, g.word()))
				continue
			}

			cents := int64(g.faker.Number(1, 5000000))
			if g.faker.Bool() {
				cents = -cents
			}
			balance += cents

			name := g.faker.Company()
			account := g.faker.Numerify(strings.Repeat("#", 26))
			street := fmt.Sprintf("ul. %s %d", g.faker.StreetName(), g.faker.Number(1, 200))
			city := fmt.Sprintf("%s %s", g.faker.Zip(), g.faker.City())
			title := g.words(3)
			extra := g.words(2)

			lines = append(lines,
				fmt.Sprintf("%d %s %s %s PLN %s PLN", lp, date, name, FormatAmount(cents), FormatAmount(balance)),
				street,
				city,
				fmt.Sprintf("%s %s", groupAccount(account, g.faker.Bool()), title),
			)

			description := title
			if g.faker.Bool() {
				lines = append(lines, fmt.Sprintf("%s  %s PLN", extra, FormatAmount(balance)))
				description += " " + extra
			}

			st.Expected = append(st.Expected, statement.Transaction{
				Page:                p,
				LineNumber:          strconv.Itoa(lp),
				Date:                date,
				CounterpartyName:    name,
				CounterpartyAddress: street + " " + city,
				AccountNumber:       account,
				Description:         description,
				Amount:              strings.ReplaceAll(FormatAmount(cents), " ", ""),
			})
		}

		lines = append(lines,
			"Dokument wygenerowany elektronicznie i nie wymaga podpisu",
			fmt.Sprintf("Strona %d z %d", p, pages),
		)
		st.Pages = append(st.Pages, strings.Join(lines, "\n"))
	}

	return st
}

func (g *Generator) word() string {
	return strings.ToLower(g.faker.LoremIpsumWord())
}

func (g *Generator) words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = g.word()
	}
	return strings.Join(w, " ")
}

// FormatAmount renders cents the way statements print them: space grouped
// thousands, comma decimal, leading minus for debits.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return fmt.Sprintf("%s%s,%02d", sign, strings.Join(groups, " "), cents%100)
}

// groupAccount prints a 26 digit account number either in one run or as
// "dd dddd dddd dddd dddd dddd dddd".
func groupAccount(digits string, grouped bool) string {
	if !grouped {
		return digits
	}
	parts := []string{digits[:2]}
	for i := 2; i < len(digits); i += 4 {
		parts = append(parts, digits[i:i+4])
	}
	return strings.Join(parts, " ")
}

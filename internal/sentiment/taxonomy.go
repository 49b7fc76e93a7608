package sentiment

// Aspect is one topical category a document can be partitioned into.
// Keywords are matched case-insensitively as substrings.
type Aspect struct {
	Name     string
	Keywords []string
}

// Taxonomy is an ordered, process-wide set of aspects. The order is fixed so
// every request walks the aspects the same way; consumers must not attach
// meaning to it.
type Taxonomy []Aspect

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "earnings", Keywords: []string{"revenue", "profit", "earnings", "quarter", "eps", "guidance", "margin"}},
		{Name: "leadership", Keywords: []string{"ceo", "cfo", "executive", "board", "management", "resign", "appoint"}},
		{Name: "products", Keywords: []string{"product", "launch", "release", "patent", "innovation"}},
		{Name: "legal", Keywords: []string{"lawsuit", "regulator", "sec", "investigation", "fine", "settlement"}},
		{Name: "macro", Keywords: []string{"inflation", "interest rate", "fed", "economy", "tariff", "recession"}},
		{Name: "markets", Keywords: []string{"stock", "shares", "analyst", "upgrade", "downgrade", "price target"}},
	}
}

package signals

// Keyword categories for product-market-fit evidence. Matching is
// case-insensitive substring containment; each phrase counts at most
// once per post regardless of repeats.

var painKeywords = []string{
	"pain", "problem", "struggle", "hard", "difficult", "broken", "frustrating",
	"friction", "annoying", "slow", "expensive", "manual", "waste", "inefficient",
	"workaround", "clunky", "hate", "stuck",
}

var intentKeywords = []string{
	"looking for", "need", "wish", "trying to find", "any tool", "recommend",
	"does anyone use", "what do you use", "searching for", "help with",
}

var buyingKeywords = []string{
	"would pay", "willing to pay", "budget", "pricing", "price", "subscription",
	"paid", "buy", "purchase", "cost", "invoice",
}

var switchKeywords = []string{
	"alternative", "switch", "migrate", "replace", "competitor", "leaving", "churn",
}

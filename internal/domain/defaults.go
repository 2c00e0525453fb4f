package domain

// CategorySeed is one entry of the default-category table seeded for every
// new user. The table is injected into the bootstrap path rather than baked
// into it, so deployments and tests can substitute their own set.
type CategorySeed struct {
	Name  string
	Icon  string
	Color string
}

var defaultCategorySeeds = []CategorySeed{
	{Name: "Salary", Icon: "💰", Color: "#22C55E"},
	{Name: "Freelance", Icon: "💼", Color: "#10B981"},
	{Name: "Investment", Icon: "📈", Color: "#14B8A6"},
	{Name: "Other Income", Icon: "💵", Color: "#84CC16"},
	{Name: "Food", Icon: "🍔", Color: "#EF4444"},
	{Name: "Transport", Icon: "🚗", Color: "#F97316"},
	{Name: "Utilities", Icon: "💡", Color: "#F59E0B"},
	{Name: "Entertainment", Icon: "🎮", Color: "#8B5CF6"},
	{Name: "Shopping", Icon: "🛍️", Color: "#EC4899"},
	{Name: "Healthcare", Icon: "🏥", Color: "#06B6D4"},
	{Name: "Education", Icon: "📚", Color: "#3B82F6"},
	{Name: "Other Expense", Icon: "💸", Color: "#64748B"},
}

// DefaultCategories returns a copy of the built-in default-category table.
func DefaultCategories() []CategorySeed {
	out := make([]CategorySeed, len(defaultCategorySeeds))
	copy(out, defaultCategorySeeds)
	return out
}

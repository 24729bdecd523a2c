package model

// Creator holds the AI configuration relevant to the response pipeline.
type Creator struct {
	Slug                 string
	UserID               int64
	DisplayName          string
	AgencyID             *int64
	AIProvider           *string
	AIModel              *string
	AIAPIKey             *string
	PPVPrice             int
	SubscriptionPrice    int
	TipPrice             int
	DefaultPersonalityID *int64
}

// UsesCustomKey is true when the creator pays the model provider directly,
// which exempts them from AI credit charges.
func (c Creator) UsesCustomKey() bool {
	return c.AIAPIKey != nil && *c.AIAPIKey != ""
}

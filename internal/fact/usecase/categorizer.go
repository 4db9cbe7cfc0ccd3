package usecase

import (
	"sort"
	"strings"
	"time"

	factdomain "aura-backend/internal/fact/domain"
	ingestdomain "aura-backend/internal/ingest/domain"
	propertydomain "aura-backend/internal/property/domain"
	"aura-backend/pkg/textmatch"
)

// PropertyMatchThreshold is the minimum token-overlap score for linking a
// fact to a property. Below it the fact stays uncategorized, not dropped.
const PropertyMatchThreshold = 0.6

// keyword confidence: exact table hit vs defaulted "other"
const (
	keywordHitConfidence     = 1.0
	keywordDefaultConfidence = 0.5
)

// keywordTable maps a label to the trigger words that select it; tables
// are scanned in order and the first hit wins
type keywordTable struct {
	label    string
	keywords []string
}

var expenseCategories = []keywordTable{
	{"rent", []string{"rent", "lease", "apartment", "housing"}},
	{"utilities", []string{"electric", "gas", "water", "internet", "cable", "utility", "utilities"}},
	{"maintenance", []string{"repair", "maintenance", "plumber", "plumbing", "electrician", "contractor", "pest", "exterminator", "landscaping", "lawn", "cleaning", "hvac"}},
}

var documentTypes = []keywordTable{
	{"lease", []string{"lease", "rental agreement", "tenancy"}},
	{"receipt", []string{"receipt", "invoice", "payment"}},
	{"contract", []string{"contract", "agreement", "terms"}},
}

var serviceTypes = []keywordTable{
	{"plumber", []string{"plumber", "plumbing", "pipe", "leak", "drain", "faucet"}},
	{"electrician", []string{"electrician", "electrical", "wiring", "outlet", "circuit", "breaker"}},
	{"hvac", []string{"hvac", "heating", "cooling", "air conditioning", "furnace"}},
	{"contractor", []string{"contractor", "construction", "renovation", "remodel"}},
	{"cleaner", []string{"cleaner", "cleaning", "housekeeping", "maid"}},
	{"landscaper", []string{"landscaper", "landscaping", "lawn", "garden", "yard", "mowing"}},
	{"pest_control", []string{"pest", "exterminator", "termite", "rodent"}},
	{"locksmith", []string{"locksmith", "lock", "deadbolt"}},
	{"painter", []string{"painter", "painting", "paint"}},
	{"appliance_repair", []string{"appliance", "washer", "dryer", "refrigerator", "dishwasher"}},
}

// Categorizer turns one item's extracted entities into property-linked
// facts. Deterministic: the same entities and properties always yield the
// same fact set.
type Categorizer struct {
	threshold float64
}

func NewCategorizer() *Categorizer {
	return &Categorizer{threshold: PropertyMatchThreshold}
}

func NewCategorizerWithThreshold(threshold float64) *Categorizer {
	return &Categorizer{threshold: threshold}
}

func (c *Categorizer) Categorize(item *ingestdomain.IngestItem, entities []*ingestdomain.ExtractedEntity, properties []*propertydomain.Property) []*factdomain.Fact {
	byType := groupByType(entities)
	propertyID, propertyScore := c.matchProperty(byType[ingestdomain.EntityAddress], properties)
	occurred := factDate(item, byType[ingestdomain.EntityDate])

	var facts []*factdomain.Fact

	if amount := bestAmount(byType[ingestdomain.EntityAmount]); amount != nil {
		switch item.SourceType {
		case ingestdomain.SourceBanking, ingestdomain.SourceMail:
			facts = append(facts, c.expenseFact(item, amount, propertyID, propertyScore, occurred))
		}
	}

	switch item.SourceType {
	case ingestdomain.SourceDrive:
		facts = append(facts, c.documentFact(item, propertyID, propertyScore, occurred))
	case ingestdomain.SourceMail:
		if len(item.Attachments) > 0 {
			facts = append(facts, c.documentFact(item, propertyID, propertyScore, occurred))
		}
	}

	if item.SourceType == ingestdomain.SourceMessaging || item.SourceType == ingestdomain.SourceMail {
		if contact := c.contactFact(item, byType, propertyID, propertyScore, occurred); contact != nil {
			facts = append(facts, contact)
		}
	}

	return facts
}

// matchProperty scores every property against the extracted addresses and
// returns the best one above the threshold. Ties go to the most recently
// updated property.
func (c *Categorizer) matchProperty(addresses []*ingestdomain.ExtractedEntity, properties []*propertydomain.Property) (*string, float64) {
	if len(addresses) == 0 || len(properties) == 0 {
		return nil, 0
	}

	ordered := make([]*propertydomain.Property, len(properties))
	copy(ordered, properties)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
	})

	var best *propertydomain.Property
	bestScore := 0.0
	for _, p := range ordered {
		reference := p.FullAddress()
		for _, addr := range addresses {
			score := textmatch.TokenOverlap(addr.Value, reference)
			if score > bestScore {
				best, bestScore = p, score
			}
		}
	}

	if best == nil || bestScore < c.threshold {
		return nil, 0
	}
	id := best.ID
	return &id, bestScore
}

func (c *Categorizer) expenseFact(item *ingestdomain.IngestItem, amount *ingestdomain.ExtractedEntity, propertyID *string, propertyScore float64, occurred time.Time) *factdomain.Fact {
	text := item.RawText
	payload := &factdomain.ExpensePayload{Amount: amount.Number(), Description: item.RawText}
	if meta := item.Metadata.Banking; meta != nil {
		payload.Merchant = meta.Merchant
		payload.Currency = meta.Currency
		payload.Description = meta.Name
		text = strings.Join(append([]string{meta.Name, meta.Merchant, item.RawText}, meta.Categories...), " ")
	}

	category, keywordConf := classify(text, expenseCategories)

	return &factdomain.Fact{
		UserID:       item.UserID,
		SourceItemID: item.ID,
		FactType:     factdomain.FactExpense,
		PropertyID:   propertyID,
		Category:     category,
		Confidence:   propertyScore * keywordConf,
		Payload:      factdomain.Payload{Expense: payload},
		OccurredAt:   occurred,
	}
}

func (c *Categorizer) documentFact(item *ingestdomain.IngestItem, propertyID *string, propertyScore float64, occurred time.Time) *factdomain.Fact {
	payload := &factdomain.DocumentPayload{}
	text := item.RawText

	if meta := item.Metadata.Drive; meta != nil {
		payload.Title = meta.Filename
		payload.MimeType = meta.MimeType
		payload.Link = meta.WebLink
		text = meta.Filename + " " + item.RawText
	} else if len(item.Attachments) > 0 {
		att := item.Attachments[0]
		payload.Title = att.Filename
		payload.MimeType = att.ContentType
		text = att.Filename + " " + item.RawText
	}
	if payload.Title == "" && item.Metadata.Mail != nil {
		payload.Title = item.Metadata.Mail.Subject
	}

	docType, keywordConf := classify(text, documentTypes)
	payload.DocType = docType

	return &factdomain.Fact{
		UserID:       item.UserID,
		SourceItemID: item.ID,
		FactType:     factdomain.FactDocument,
		PropertyID:   propertyID,
		Category:     docType,
		Confidence:   propertyScore * keywordConf,
		Payload:      factdomain.Payload{Document: payload},
		OccurredAt:   occurred,
	}
}

// contactFact requires a person or org plus a phone number; anything less
// is not a usable service-provider contact
func (c *Categorizer) contactFact(item *ingestdomain.IngestItem, byType map[ingestdomain.EntityType][]*ingestdomain.ExtractedEntity, propertyID *string, propertyScore float64, occurred time.Time) *factdomain.Fact {
	phones := byType[ingestdomain.EntityPhone]
	orgs := byType[ingestdomain.EntityOrg]
	persons := byType[ingestdomain.EntityPerson]
	if len(phones) == 0 || (len(orgs) == 0 && len(persons) == 0) {
		return nil
	}

	payload := &factdomain.ContactPayload{Phone: phones[0].Value}
	if len(orgs) > 0 {
		payload.Name = orgs[0].Value
	} else {
		payload.Name = persons[0].Value
	}
	if emails := byType[ingestdomain.EntityEmail]; len(emails) > 0 {
		payload.Email = emails[0].Value
	}

	serviceType, keywordConf := classify(item.RawText+" "+payload.Name, serviceTypes)
	payload.ServiceType = serviceType

	return &factdomain.Fact{
		UserID:       item.UserID,
		SourceItemID: item.ID,
		FactType:     factdomain.FactContact,
		PropertyID:   propertyID,
		Category:     serviceType,
		Confidence:   propertyScore * keywordConf,
		Payload:      factdomain.Payload{Contact: payload},
		OccurredAt:   occurred,
	}
}

// classify returns the first table whose keywords appear in the text, or
// "other" at reduced confidence when nothing matches
func classify(text string, tables []keywordTable) (string, float64) {
	for _, table := range tables {
		if textmatch.ContainsKeyword(text, table.keywords) {
			return table.label, keywordHitConfidence
		}
	}
	return "other", keywordDefaultConfidence
}

func groupByType(entities []*ingestdomain.ExtractedEntity) map[ingestdomain.EntityType][]*ingestdomain.ExtractedEntity {
	byType := make(map[ingestdomain.EntityType][]*ingestdomain.ExtractedEntity)
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e)
	}
	return byType
}

// bestAmount prefers the highest-confidence amount, then the largest
func bestAmount(amounts []*ingestdomain.ExtractedEntity) *ingestdomain.ExtractedEntity {
	var best *ingestdomain.ExtractedEntity
	for _, a := range amounts {
		if best == nil || a.Confidence > best.Confidence ||
			(a.Confidence == best.Confidence && a.Number() > best.Number()) {
			best = a
		}
	}
	return best
}

// factDate uses the earliest extracted date, falling back to the item time
func factDate(item *ingestdomain.IngestItem, dates []*ingestdomain.ExtractedEntity) time.Time {
	var earliest time.Time
	for _, d := range dates {
		t, err := time.Parse("2006-01-02", d.Value)
		if err != nil {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	if earliest.IsZero() {
		return item.OccurredAt
	}
	return earliest
}

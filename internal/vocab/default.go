package vocab

import "github.com/sells-group/quote-compare/internal/model"

// Default returns the built-in life-insurance quote vocabulary. It covers
// the coverage sums and premiums brokers compare most often, with the
// label variations insurers are known to use. Deployments with their own
// registry file override it entirely.
func Default() (*model.Vocabulary, error) {
	return model.NewVocabulary(defaultFields())
}

func defaultFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{
			CanonicalID: "annual_premium",
			DisplayName: "Total Annual Premium",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Required:    true,
			Direction:   model.DirectionLower,
			Group:       "premium",
			Synonyms: []string{
				"annual premium", "total annual premium", "yearly premium",
				"total premium", "premium per annum", "yearly payment",
			},
		},
		{
			CanonicalID: "liability_limit",
			DisplayName: "Liability Limit",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Required:    true,
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"liability limit", "liability cover", "public liability",
				"liability sum insured", "legal liability",
			},
		},
		{
			CanonicalID: "deductible",
			DisplayName: "Deductible",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionLower,
			Synonyms: []string{
				"deductible", "excess", "standard excess", "claim excess amount",
				"policy excess",
			},
		},
		{
			CanonicalID: "life_insurance_sum",
			DisplayName: "Life Insurance Sum Insured",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"life insurance", "sum insured life", "life cover", "death benefit",
				"life insurance sum insured", "death cover", "life benefit amount",
				"death cover amount",
			},
		},
		{
			CanonicalID: "life_insurance_premium",
			DisplayName: "Life Insurance Premium",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionLower,
			Group:       "premium",
			Synonyms: []string{
				"life insurance premium", "life premium", "death cover premium",
				"life insurance yearly premium", "annual life premium",
			},
		},
		{
			CanonicalID: "tpd_any_sum",
			DisplayName: "TPD (Any Occupation) Sum Insured",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"tpd (any occupation)", "tpd any occupation", "tpd any occ",
				"total permanent disability any occupation", "tpd - any occupation",
				"total permanent disability (any occupation)",
			},
		},
		{
			CanonicalID: "tpd_own_sum",
			DisplayName: "TPD (Own Occupation) Sum Insured",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"tpd (own occupation)", "tpd own occupation", "tpd own occ",
				"total permanent disability own occupation", "tpd - own occupation",
				"total permanent disability (own occupation)",
			},
		},
		{
			CanonicalID: "critical_illness_sum",
			DisplayName: "Critical Illness Sum Insured",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"critical illness insurance", "critical illness", "trauma insurance",
				"trauma cover", "critical illness cover", "serious illness cover",
				"serious illness",
			},
		},
		{
			CanonicalID: "income_protection_sum",
			DisplayName: "Income Protection Monthly Benefit",
			Kind:        model.KindCurrency,
			UnitFamily:  "currency",
			Direction:   model.DirectionHigher,
			Group:       "coverage",
			Synonyms: []string{
				"income protection insurance", "income protection", "disability income",
				"monthly benefit", "income cover", "salary protection",
			},
		},
		{
			CanonicalID: "waiting_period",
			DisplayName: "Waiting Period",
			Kind:        model.KindDuration,
			UnitFamily:  "time",
			Direction:   model.DirectionLower,
			Synonyms: []string{
				"waiting period", "wait period", "deferment period", "qualifying period",
			},
		},
		{
			CanonicalID: "benefit_period",
			DisplayName: "Benefit Period",
			Kind:        model.KindDuration,
			UnitFamily:  "time",
			Direction:   model.DirectionHigher,
			Synonyms: []string{
				"benefit period", "payment period", "benefit payment period",
			},
		},
		{
			CanonicalID: "premium_source",
			DisplayName: "Premium Source",
			Kind:        model.KindEnum,
			Synonyms: []string{
				"premium paid from", "where premium paid", "payment source",
				"funded from", "premium funding",
			},
			EnumValues: []string{"super fund", "superannuation", "personal", "external"},
		},
		{
			CanonicalID: "policy_number",
			DisplayName: "Policy Number",
			Kind:        model.KindText,
			Synonyms: []string{
				"policy number", "policy no", "quote number", "quote no",
				"reference number", "ref no", "proposal number",
			},
		},
	}
}

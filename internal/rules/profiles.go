package rules

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/edgecount/edgecount/protocol"
)

// profilesFile is the top-level HCL structure for table-rule profiles
type profilesFile struct {
	Profiles []profileBlock `hcl:"profile,block"`
}

// profileBlock mirrors GameRules with optional fields so omitted values can
// fall back to the defaults rather than to Go zero values.
type profileBlock struct {
	Name string `hcl:"name,label"`

	NumDecks    *int     `hcl:"num_decks,optional"`
	Penetration *float64 `hcl:"penetration,optional"`

	DealerStandsSoft17 *bool `hcl:"dealer_stands_soft_17,optional"`
	DealerPeeks        *bool `hcl:"dealer_peeks,optional"`

	DoubleAfterSplit *bool `hcl:"double_after_split,optional"`
	ResplitAces      *bool `hcl:"resplit_aces,optional"`
	HitSplitAces     *bool `hcl:"hit_split_aces,optional"`
	MaxSplits        *int  `hcl:"max_splits,optional"`

	SurrenderAllowed *bool `hcl:"surrender_allowed,optional"`
	EarlySurrender   *bool `hcl:"early_surrender,optional"`

	Double9To11Only   *bool `hcl:"double_9_to_11_only,optional"`
	Double10And11Only *bool `hcl:"double_10_and_11_only,optional"`

	BlackjackPayout *float64 `hcl:"blackjack_payout,optional"`

	TableMin *float64 `hcl:"table_min,optional"`
	TableMax *float64 `hcl:"table_max,optional"`
}

// LoadProfiles loads named rule profiles from an HCL file. Each profile
// starts from Default() and overrides only the fields it sets; every loaded
// profile is validated before the map is returned.
func LoadProfiles(filename string) (map[string]GameRules, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, protocol.Errorf(protocol.ErrBadRules, "profile file %s does not exist", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, protocol.Errorf(protocol.ErrBadRules, "failed to parse %s: %s", filename, diags.Error())
	}

	var pf profilesFile
	diags = gohcl.DecodeBody(file.Body, nil, &pf)
	if diags.HasErrors() {
		return nil, protocol.Errorf(protocol.ErrBadRules, "failed to decode %s: %s", filename, diags.Error())
	}

	profiles := make(map[string]GameRules, len(pf.Profiles))
	for _, p := range pf.Profiles {
		if _, dup := profiles[p.Name]; dup {
			return nil, protocol.Errorf(protocol.ErrBadRules, "duplicate profile %q", p.Name)
		}
		r := p.apply(Default())
		r.Name = p.Name
		if err := r.Validate(); err != nil {
			return nil, err
		}
		profiles[p.Name] = r
	}
	return profiles, nil
}

func (p profileBlock) apply(r GameRules) GameRules {
	if p.NumDecks != nil {
		r.NumDecks = *p.NumDecks
	}
	if p.Penetration != nil {
		r.Penetration = *p.Penetration
	}
	if p.DealerStandsSoft17 != nil {
		r.DealerStandsSoft17 = *p.DealerStandsSoft17
	}
	if p.DealerPeeks != nil {
		r.DealerPeeks = *p.DealerPeeks
	}
	if p.DoubleAfterSplit != nil {
		r.DoubleAfterSplit = *p.DoubleAfterSplit
	}
	if p.ResplitAces != nil {
		r.ResplitAces = *p.ResplitAces
	}
	if p.HitSplitAces != nil {
		r.HitSplitAces = *p.HitSplitAces
	}
	if p.MaxSplits != nil {
		r.MaxSplits = *p.MaxSplits
	}
	if p.SurrenderAllowed != nil {
		r.SurrenderAllowed = *p.SurrenderAllowed
	}
	if p.EarlySurrender != nil {
		r.EarlySurrender = *p.EarlySurrender
	}
	if p.Double9To11Only != nil {
		r.Double9To11Only = *p.Double9To11Only
	}
	if p.Double10And11Only != nil {
		r.Double10And11Only = *p.Double10And11Only
	}
	if p.BlackjackPayout != nil {
		r.BlackjackPayout = *p.BlackjackPayout
	}
	if p.TableMin != nil {
		r.TableMin = *p.TableMin
	}
	if p.TableMax != nil {
		r.TableMax = *p.TableMax
	}
	return r
}

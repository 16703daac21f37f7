// Package display computes UI-only card attributes. The pass is pure: it
// returns enriched copies and never touches the rating data it reads, so the
// same card appearing in a roster and a lineup slot cannot alias. It must be
// re-run per fetch because the name-collision table depends on the current
// roster union.
package display

import (
	"strings"

	"showdown-client/internal/domain"
)

const spInningsThreshold = 3

// NameCounts builds the shared name-collision table across every roster in
// the batch. Both sides of a game feed a single table so a duplicated name
// is disambiguated no matter which roster it sits in.
func NameCounts(rosters ...[]domain.Card) map[string]int {
	counts := make(map[string]int)
	for _, roster := range rosters {
		for _, card := range roster {
			counts[card.Name]++
		}
	}
	return counts
}

// EnrichCard returns a copy of the card with DisplayName and DisplayPosition
// populated. Applying it to an already-enriched card yields the same result.
func EnrichCard(card domain.Card, counts map[string]int) domain.Card {
	card.DisplayName = displayName(card, counts)
	card.DisplayPosition = displayPosition(card)
	return card
}

// EnrichRoster enriches every card of a roster against the shared table.
func EnrichRoster(roster []domain.Card, counts map[string]int) []domain.Card {
	if roster == nil {
		return nil
	}
	enriched := make([]domain.Card, len(roster))
	for i, card := range roster {
		enriched[i] = EnrichCard(card, counts)
	}
	return enriched
}

// EnrichLineup enriches the batting order and starting pitcher of a lineup.
func EnrichLineup(lineup *domain.Lineup, counts map[string]int) *domain.Lineup {
	if lineup == nil {
		return nil
	}
	enriched := &domain.Lineup{
		BattingOrder: make([]domain.LineupSlot, len(lineup.BattingOrder)),
	}
	for i, slot := range lineup.BattingOrder {
		enriched.BattingOrder[i] = domain.LineupSlot{
			Slot: slot.Slot,
			Card: EnrichCard(slot.Card, counts),
		}
	}
	if lineup.StartingPitcher != nil {
		sp := EnrichCard(*lineup.StartingPitcher, counts)
		enriched.StartingPitcher = &sp
	}
	return enriched
}

// EnrichCardPtr enriches a single optional card, returning a new pointer.
func EnrichCardPtr(card *domain.Card, counts map[string]int) *domain.Card {
	if card == nil {
		return nil
	}
	enriched := EnrichCard(*card, counts)
	return &enriched
}

func displayName(card domain.Card, counts map[string]int) string {
	if counts[card.Name] > 1 && card.Team != "" {
		return card.Name + " (" + card.Team + ")"
	}
	return card.Name
}

func displayPosition(card domain.Card) string {
	if card.IsPitcher() {
		if card.IP > spInningsThreshold {
			return "SP"
		}
		return "RP"
	}

	tokens := splitPositions(card.Positions)
	if len(tokens) == 0 {
		return "DH"
	}
	joined := strings.Join(tokens, "/")
	return strings.ReplaceAll(joined, "LFRF", "LF/RF")
}

func splitPositions(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

package migrations

import (
	"fmt"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/mongodb"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// PrizeLookup resolves a prize by label
type PrizeLookup interface {
	Find(label string) (models.PrizeDefinition, bool)
}

// All returns every job in the order they should run
func All(prizes PrizeLookup) []Job {
	return []Job{
		ClaimTicketBackfill{},
		ClaimedFlagBackfill{},
		RewardTagBackfill{Prizes: prizes},
		AccountPointsInit{},
	}
}

// Find returns the named job
func Find(jobs []Job, name string) (Job, error) {
	for _, j := range jobs {
		if j.Name() == name {
			return j, nil
		}
	}
	return nil, fmt.Errorf("unknown migration job %q", name)
}

// ClaimTicketBackfill gives spins recorded before claim tickets existed a ticket
type ClaimTicketBackfill struct{}

func (ClaimTicketBackfill) Name() string       { return "spin-claim-ticket-backfill" }
func (ClaimTicketBackfill) Collection() string { return mongodb.SpinsCollection }
func (ClaimTicketBackfill) Selector() bson.M   { return blankSelector("claimTicketId") }

func (ClaimTicketBackfill) NeedsMigration(doc bson.M) bool {
	return isBlank(doc, "claimTicketId")
}

func (ClaimTicketBackfill) Migrate(bson.M) (bson.M, error) {
	return bson.M{"claimTicketId": utils.NewClaimTicketID()}, nil
}

// ClaimedFlagBackfill sets the claimed flag on spins that predate it.
// A spin with a claimedAt timestamp was claimed.
type ClaimedFlagBackfill struct{}

func (ClaimedFlagBackfill) Name() string       { return "spin-claimed-flag-backfill" }
func (ClaimedFlagBackfill) Collection() string { return mongodb.SpinsCollection }
func (ClaimedFlagBackfill) Selector() bson.M   { return bson.M{"claimed": bson.M{"$exists": false}} }

func (ClaimedFlagBackfill) NeedsMigration(doc bson.M) bool {
	_, ok := doc["claimed"]
	return !ok
}

func (ClaimedFlagBackfill) Migrate(doc bson.M) (bson.M, error) {
	claimedAt, ok := doc["claimedAt"]
	return bson.M{"claimed": ok && claimedAt != nil}, nil
}

// RewardTagBackfill copies the reward tag from the prize table onto old spins.
// Spins whose label is no longer in the table are left alone.
type RewardTagBackfill struct {
	Prizes PrizeLookup
}

func (RewardTagBackfill) Name() string       { return "spin-reward-tag-backfill" }
func (RewardTagBackfill) Collection() string { return mongodb.SpinsCollection }
func (RewardTagBackfill) Selector() bson.M   { return blankSelector("rewardTag") }

func (RewardTagBackfill) NeedsMigration(doc bson.M) bool {
	return isBlank(doc, "rewardTag")
}

func (j RewardTagBackfill) Migrate(doc bson.M) (bson.M, error) {
	label, _ := doc["prizeLabel"].(string)
	prize, ok := j.Prizes.Find(label)
	if !ok || prize.RewardTag == "" {
		return nil, ErrSkip
	}
	return bson.M{"rewardTag": prize.RewardTag}, nil
}

// AccountPointsInit gives accounts without a balance field a zero balance
type AccountPointsInit struct{}

func (AccountPointsInit) Name() string       { return "account-points-init" }
func (AccountPointsInit) Collection() string { return mongodb.UsersCollection }
func (AccountPointsInit) Selector() bson.M   { return bson.M{"points": bson.M{"$exists": false}} }

func (AccountPointsInit) NeedsMigration(doc bson.M) bool {
	_, ok := doc["points"]
	return !ok
}

func (AccountPointsInit) Migrate(bson.M) (bson.M, error) {
	return bson.M{"points": 0}, nil
}

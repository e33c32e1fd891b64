package market

import "fmt"

// Job is one entry of the work menu. Reward and risk are uniform
// ranges; the heist pays and fines fixed amounts. HighRisk marks the
// job exempt from every work buff.
type Job struct {
	Name        string
	RewardMin   float64
	RewardMax   float64
	SuccessRate float64
	RiskMin     float64
	RiskMax     float64
	HighRisk    bool

	successMsg string // fmt: worker name, amount
	failureMsg string // fmt: worker name, amount
}

// Success formats the success announcement for a worker and reward.
func (j Job) Success(worker string, reward float64) string {
	return fmt.Sprintf(j.successMsg, worker, reward)
}

// Failure formats the failure announcement for a worker and penalty.
func (j Job) Failure(worker string, penalty float64) string {
	return fmt.Sprintf(j.failureMsg, worker, penalty)
}

// jobs is ordered by expected reward, lowest risk first. The heist sits
// last: a 2% shot at a fixed 500 with a fixed 10 fine, immune to buffs.
var jobs = []Job{
	{Name: "brick hauling", RewardMin: 15, RewardMax: 20, SuccessRate: 1.0,
		successMsg: "⛏️ %s hauled bricks on a building site all day, utterly exhausted. You earned %.2f Astral Coins!",
		failureMsg: ""},
	{Name: "food delivery", RewardMin: 20, RewardMax: 25, SuccessRate: 0.9, RiskMin: 1, RiskMax: 3,
		successMsg: "🚴 %s pedaled like mad delivering food all day and earned %.2f Astral Coins!",
		failureMsg: "🍔 %s crashed on a delivery run and had to refund the order, losing %.2f Astral Coins."},
	{Name: "courier", RewardMin: 25, RewardMax: 30, SuccessRate: 0.8, RiskMin: 3, RiskMax: 6,
		successMsg: "📦 %s delivered parcels through wind and rain and earned %.2f Astral Coins.",
		failureMsg: "📭 %s lost a parcel, got reported by the customer and paid %.2f Astral Coins."},
	{Name: "tutoring", RewardMin: 30, RewardMax: 35, SuccessRate: 0.7, RiskMin: 6, RiskMax: 9,
		successMsg: "📚 %s tutored a student patiently, the parents were delighted, earning %.2f Astral Coins.",
		failureMsg: "😵 %s got dismissed when the grades did not improve, losing %.2f Astral Coins."},
	{Name: "mining", RewardMin: 35, RewardMax: 40, SuccessRate: 0.6, RiskMin: 9, RiskMax: 12,
		successMsg: "⛏️ %s mined underground all day and struck precious ore, earning %.2f Astral Coins!",
		failureMsg: "💥 %s triggered a cave-in, got hurt and lost %.2f Astral Coins."},
	{Name: "homework ghostwriting", RewardMin: 40, RewardMax: 45, SuccessRate: 0.5, RiskMin: 12, RiskMax: 15,
		successMsg: "📘 %s quietly ghostwrote homework for cash, easily earning %.2f Astral Coins.",
		failureMsg: "📚 %s got caught ghostwriting by the teacher and was fined %.2f Astral Coins."},
	{Name: "bubble tea shop", RewardMin: 45, RewardMax: 50, SuccessRate: 0.4, RiskMin: 15, RiskMax: 18,
		successMsg: "🧋 %s worked a full shift at the bubble tea shop and made %.2f Astral Coins.",
		failureMsg: "🥤 %s knocked over a whole vat of bubble tea and paid %.2f Astral Coins for it."},
	{Name: "vault heist", RewardMin: 500, RewardMax: 500, SuccessRate: 0.02, RiskMin: 10, RiskMax: 10, HighRisk: true,
		successMsg: "🌟 %s pulled off the heist and lifted an unbelievable %.2f Astral Coins from the vault!",
		failureMsg: "💫 %s was caught red-handed mid-heist, and you, the mastermind, paid %.2f Astral Coins."},
}

// Jobs returns the work menu in display order.
func Jobs() []Job {
	return jobs
}

// FindJob looks a job up by name.
func FindJob(name string) (Job, bool) {
	for _, j := range jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

package relay

import "math/rand"

// Reason explains which rule made the policy decide to reply.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonDirect      // DM, bot mention or recognized prefix
	ReasonReplyChain  // message replies to the bot's own prior message
	ReasonRandomChance
	ReasonHunted
)

func (r Reason) String() string {
	switch r {
	case ReasonDirect:
		return "direct"
	case ReasonReplyChain:
		return "reply-chain"
	case ReasonRandomChance:
		return "random-chance"
	case ReasonHunted:
		return "hunted"
	}
	return "none"
}

// DecisionInput is everything the reply policy looks at for one message.
type DecisionInput struct {
	IsDM         bool
	HasMention   bool
	HasPrefix    bool
	IsReplyToBot bool
	ReplyChance  float64 // channel setting, 0..100
	IsHunted     bool
	HuntedChance int // per-user override, 1..100
}

// ShouldReply evaluates the widening-OR chain: direct address, reply chain,
// channel random chance, hunted-user override. First match wins. rng may be
// nil, in which case the global source is used.
func ShouldReply(in DecisionInput, rng *rand.Rand) (bool, Reason) {
	if in.IsDM || in.HasMention || in.HasPrefix {
		return true, ReasonDirect
	}
	if in.IsReplyToBot {
		return true, ReasonReplyChain
	}
	// Draw over roughly [0.001, 99.001): chance 100 always wins, 0 never can.
	if in.ReplyChance > float64(intn(rng, 99))+0.001+frand(rng) {
		return true, ReasonRandomChance
	}
	if in.IsHunted && in.HuntedChance >= intn(rng, 100)+1 {
		return true, ReasonHunted
	}
	return false, ReasonNone
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}

func frand(rng *rand.Rand) float64 {
	if rng != nil {
		return rng.Float64()
	}
	return rand.Float64()
}

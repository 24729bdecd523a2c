package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

type Services struct {
	stores               *store.Stores
	txRunner             TxRunner
	redis                *redis.Client
	realtimePrefix       string
	highSpenderThreshold int
	intents              *brain.IntentDetector
	rnd                  brain.Rand
}

type Config struct {
	RealtimePrefix       string
	HighSpenderThreshold int
}

func NewServices(stores *store.Stores, txRunner TxRunner, redisClient *redis.Client, cfg Config) *Services {
	return &Services{
		stores:               stores,
		txRunner:             txRunner,
		redis:                redisClient,
		realtimePrefix:       cfg.RealtimePrefix,
		highSpenderThreshold: cfg.HighSpenderThreshold,
		intents:              brain.NewIntentDetector(brain.DefaultIntents()),
		rnd:                  brain.NewRand(),
	}
}

func (s *Services) Credits() CreditService {
	return NewCreditService(s.stores.Credits())
}

func (s *Services) Handoffs() HandoffService {
	return NewHandoffService(s.stores.Conversations(), s.stores.Fans(), s.txRunner, s.highSpenderThreshold)
}

func (s *Services) Media() MediaEngine {
	return NewMediaEngine(s.stores.Media(), s.intents, s.rnd)
}

func (s *Services) Notifier() Notifier {
	return NewRedisNotifier(s.redis, s.realtimePrefix)
}

func (s *Services) PersonalitySelector() brain.PersonalitySelector {
	return NewPersonalitySelector(s.stores.Creators(), s.stores.Personalities())
}

func (s *Services) ObjectionResolver() brain.ObjectionResolver {
	return NewObjectionResolver()
}

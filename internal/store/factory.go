package store

type Stores struct {
	db DBTX
}

func NewStores(db DBTX) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Queue() QueueStore {
	return newQueueStore(s.db)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.db)
}

func (s *Stores) Conversations() ConversationStore {
	return newConversationStore(s.db)
}

func (s *Stores) Personalities() PersonalityStore {
	return newPersonalityStore(s.db)
}

func (s *Stores) Scripts() ScriptStore {
	return newScriptStore(s.db)
}

func (s *Stores) ScriptUsages() ScriptUsageStore {
	return newScriptUsageStore(s.db)
}

func (s *Stores) Fans() FanStore {
	return newFanStore(s.db)
}

func (s *Stores) FanMemories() FanMemoryStore {
	return newFanMemoryStore(s.db)
}

func (s *Stores) Creators() CreatorStore {
	return newCreatorStore(s.db)
}

func (s *Stores) Credits() CreditStore {
	return newCreditStore(s.db)
}

func (s *Stores) Suggestions() SuggestionStore {
	return newSuggestionStore(s.db)
}

func (s *Stores) Handoffs() HandoffStore {
	return newHandoffStore(s.db)
}

func (s *Stores) Objections() ObjectionStore {
	return newObjectionStore(s.db)
}

func (s *Stores) Media() MediaStore {
	return newMediaStore(s.db)
}

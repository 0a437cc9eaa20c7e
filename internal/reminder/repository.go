package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"toddybot/internal/store"
)

// StoreRepository keeps the serialized reminder map under the
// `remember` field of the globals document
type StoreRepository struct {
	st store.Store
}

func NewStoreRepository(st store.Store) *StoreRepository {
	return &StoreRepository{st: st}
}

type storedReminder struct {
	ChannelID string `json:"channelId"`
	Active    bool   `json:"active"`
}

func (r *StoreRepository) load(ctx context.Context) (map[string]map[Kind]storedReminder, error) {
	blob, err := r.st.RemindersBlob(ctx)
	if err != nil {
		return nil, err
	}
	records := map[string]map[Kind]storedReminder{}
	if len(blob) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decoding reminder map: %w", err)
	}
	return records, nil
}

func (r *StoreRepository) save(ctx context.Context, records map[string]map[Kind]storedReminder) error {
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding reminder map: %w", err)
	}
	return r.st.SaveRemindersBlob(ctx, blob)
}

func (r *StoreRepository) Load(ctx context.Context) ([]Reminder, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	reminders := []Reminder{}
	for playerID, kinds := range records {
		for kind, record := range kinds {
			reminders = append(reminders, Reminder{
				PlayerID:  playerID,
				Kind:      kind,
				ChannelID: record.ChannelID,
				Active:    record.Active,
			})
		}
	}
	return reminders, nil
}

func (r *StoreRepository) Save(ctx context.Context, reminder Reminder) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	if records[reminder.PlayerID] == nil {
		records[reminder.PlayerID] = map[Kind]storedReminder{}
	}
	records[reminder.PlayerID][reminder.Kind] = storedReminder{
		ChannelID: reminder.ChannelID,
		Active:    reminder.Active,
	}
	return r.save(ctx, records)
}

// Prune removes inactive records from the stored mirror. Fired and
// cancelled reminders are deactivated in place, so without pruning
// the blob would hold every reminder ever set
func (r *StoreRepository) Prune(ctx context.Context) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	pruned := false
	for playerID, kinds := range records {
		for kind, record := range kinds {
			if !record.Active {
				delete(kinds, kind)
				pruned = true
			}
		}
		if len(kinds) == 0 {
			delete(records, playerID)
		}
	}
	if !pruned {
		return nil
	}
	return r.save(ctx, records)
}

func (r *StoreRepository) Deactivate(ctx context.Context, playerID string, kind Kind) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	record, ok := records[playerID][kind]
	if !ok || !record.Active {
		return nil
	}
	record.Active = false
	records[playerID][kind] = record
	return r.save(ctx, records)
}

// Package seed loads a small demo community into either storage backend.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
	"energy-community/internal/community/infrastructure/postgres"
)

// Participant is one demo user with the rows that hang off it. UserID fields
// on the nested rows are filled in by Load.
type Participant struct {
	User       community.User
	Member     *community.Member
	Record     *community.EnergyRecord
	Allocation *community.PDEAllocation
	Credits    []community.EnergyCredit
}

// Trade is a contract between two participants, referenced by document.
type Trade struct {
	SellerDocument string
	BuyerDocument  string
	Contract       community.P2PContract
}

// Dataset is a self-contained community snapshot.
type Dataset struct {
	CommunityID  int64
	Period       community.Period
	Participants []Participant
	Trades       []Trade
}

// Writer persists seed rows. It returns the stored user id so later rows can
// reference it.
type Writer interface {
	PutUser(ctx context.Context, user community.User) (int64, error)
	PutMember(ctx context.Context, member community.Member) error
	PutRecord(ctx context.Context, record community.EnergyRecord) error
	PutAllocation(ctx context.Context, allocation community.PDEAllocation) error
	PutCredit(ctx context.Context, credit community.EnergyCredit) error
	PutContract(ctx context.Context, contract community.P2PContract) error
}

// Summary counts what Load wrote.
type Summary struct {
	Users     int
	Members   int
	Records   int
	Contracts int
	Credits   int
}

// Load writes every row of ds through w.
func Load(ctx context.Context, w Writer, ds Dataset) (Summary, error) {
	var sum Summary
	ids := make(map[string]int64, len(ds.Participants))
	for _, p := range ds.Participants {
		userID, err := w.PutUser(ctx, p.User)
		if err != nil {
			return sum, fmt.Errorf("seed user %s: %w", p.User.Document, err)
		}
		ids[p.User.Document] = userID
		sum.Users++

		if p.Member != nil {
			member := *p.Member
			member.UserID = userID
			if err := w.PutMember(ctx, member); err != nil {
				if !errors.Is(err, community.ErrMembershipExists) {
					return sum, fmt.Errorf("seed member %s: %w", p.User.Document, err)
				}
			} else {
				sum.Members++
			}
		}
		if p.Record != nil {
			record := *p.Record
			record.UserID = userID
			if err := w.PutRecord(ctx, record); err != nil {
				return sum, fmt.Errorf("seed record %s: %w", p.User.Document, err)
			}
			sum.Records++
		}
		if p.Allocation != nil {
			allocation := *p.Allocation
			allocation.UserID = userID
			if err := w.PutAllocation(ctx, allocation); err != nil {
				return sum, fmt.Errorf("seed allocation %s: %w", p.User.Document, err)
			}
		}
		for _, credit := range p.Credits {
			credit.UserID = userID
			if err := w.PutCredit(ctx, credit); err != nil {
				return sum, fmt.Errorf("seed credit %s: %w", p.User.Document, err)
			}
			sum.Credits++
		}
	}

	for _, trade := range ds.Trades {
		seller, ok := ids[trade.SellerDocument]
		if !ok {
			return sum, fmt.Errorf("seed contract: unknown seller %s", trade.SellerDocument)
		}
		buyer, ok := ids[trade.BuyerDocument]
		if !ok {
			return sum, fmt.Errorf("seed contract: unknown buyer %s", trade.BuyerDocument)
		}
		contract := trade.Contract
		contract.SellerID = seller
		contract.BuyerID = buyer
		if err := w.PutContract(ctx, contract); err != nil {
			return sum, fmt.Errorf("seed contract %s->%s: %w", trade.SellerDocument, trade.BuyerDocument, err)
		}
		sum.Contracts++
	}
	return sum, nil
}

// LoadMemory seeds an in-memory store.
func LoadMemory(store *memory.Store, ds Dataset) error {
	_, err := Load(context.Background(), NewMemoryWriter(store), ds)
	return err
}

// Demo builds the demo community for the month containing now.
func Demo(now time.Time) Dataset {
	period := community.PeriodOf(now)
	const communityID = 1
	expires := now.AddDate(0, 3, 0)
	expired := now.AddDate(0, -1, 0)

	return Dataset{
		CommunityID: communityID,
		Period:      period,
		Participants: []Participant{
			{
				User: community.User{ID: 1, Document: "1010001", Name: "Ana", Lastname: "Rojas", Email: "ana@example.org", IsActive: true, Role: 2},
				Member: &community.Member{
					CommunityID: communityID, Role: community.RoleProducer,
					PDEShare: ptr(dec("0.4")), InstalledCapacity: ptr(dec("5.5")), JoinedAt: now.AddDate(0, -6, 0),
				},
				Record: &community.EnergyRecord{
					CommunityID: communityID, Period: period,
					GeneratedKWh: dec("450.25"), ConsumedKWh: dec("120.5"), ExportedKWh: dec("240"), ImportedKWh: dec("10.75"),
				},
				Allocation: &community.PDEAllocation{CommunityID: communityID, AllocationPeriod: period, AllocatedKWh: dec("32.4"), SharePercentage: dec("40")},
				Credits: []community.EnergyCredit{
					{CreditKWh: dec("50"), UsedKWh: dec("12.5"), ExpirationDate: &expires},
					{CreditKWh: dec("20"), ExpirationDate: &expired},
				},
			},
			{
				User: community.User{ID: 2, Document: "1010002", Name: "Bruno", Lastname: "Mejia", Email: "bruno@example.org", IsActive: true, Role: 2},
				Member: &community.Member{
					CommunityID: communityID, Role: community.RoleConsumer,
					PDEShare: ptr(dec("0.25")), JoinedAt: now.AddDate(0, -4, 0),
				},
				Record: &community.EnergyRecord{
					CommunityID: communityID, Period: period,
					ConsumedKWh: dec("310.8"), ImportedKWh: dec("230.8"),
				},
				Allocation: &community.PDEAllocation{CommunityID: communityID, AllocationPeriod: period, AllocatedKWh: dec("20.25"), SharePercentage: dec("25")},
			},
			{
				User: community.User{ID: 3, Document: "1010003", Name: "Carla", Lastname: "Ospina", Email: "carla@example.org", IsActive: true, Role: 2},
				Member: &community.Member{
					CommunityID: communityID, Role: community.RoleProsumer,
					PDEShare: ptr(dec("0.35")), InstalledCapacity: ptr(dec("3")), JoinedAt: now.AddDate(0, -2, 0),
				},
				Record: &community.EnergyRecord{
					CommunityID: communityID, Period: period,
					GeneratedKWh: dec("210"), ConsumedKWh: dec("190.4"), ExportedKWh: dec("35.6"), ImportedKWh: dec("16"),
				},
				Credits: []community.EnergyCredit{{CreditKWh: dec("15.75")}},
			},
			{
				// Active user with no membership yet, available for registration.
				User: community.User{ID: 4, Document: "1010004", Name: "Diego", Lastname: "Salazar", Email: "diego@example.org", IsActive: true, Role: 2},
			},
			{
				User: community.User{ID: 5, Document: "1010005", Name: "Elena", Lastname: "Cortes", Email: "elena@example.org", IsActive: false, Role: 2},
			},
		},
		Trades: []Trade{
			{SellerDocument: "1010001", BuyerDocument: "1010002", Contract: community.P2PContract{
				EnergyKWh: dec("80"), PricePerKWh: dec("650.5"), ContractPeriod: period, Status: community.ContractStatusActive,
			}},
			{SellerDocument: "1010003", BuyerDocument: "1010002", Contract: community.P2PContract{
				EnergyKWh: dec("12.5"), PricePerKWh: dec("610"), ContractPeriod: period, Status: community.ContractStatusActive,
			}},
			{SellerDocument: "1010001", BuyerDocument: "1010003", Contract: community.P2PContract{
				EnergyKWh: dec("40"), PricePerKWh: dec("600"), ContractPeriod: period, Status: community.ContractStatusCompleted,
			}},
		},
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

// MemoryWriter writes into the in-memory repositories.
type MemoryWriter struct {
	store *memory.Store
}

// NewMemoryWriter wraps store.
func NewMemoryWriter(store *memory.Store) *MemoryWriter {
	return &MemoryWriter{store: store}
}

func (w *MemoryWriter) PutUser(ctx context.Context, user community.User) (int64, error) {
	if user.ID == 0 {
		return 0, errors.New("memory seed: user id required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	w.store.Users.Add(user)
	return user.ID, nil
}

func (w *MemoryWriter) PutMember(ctx context.Context, member community.Member) error {
	_, err := w.store.Members.Save(ctx, member)
	return err
}

func (w *MemoryWriter) PutRecord(ctx context.Context, record community.EnergyRecord) error {
	_, err := w.store.Records.Add(record)
	return err
}

func (w *MemoryWriter) PutAllocation(ctx context.Context, allocation community.PDEAllocation) error {
	_, err := w.store.Allocations.Add(allocation)
	return err
}

func (w *MemoryWriter) PutCredit(ctx context.Context, credit community.EnergyCredit) error {
	_, err := w.store.Credits.Add(credit)
	return err
}

func (w *MemoryWriter) PutContract(ctx context.Context, contract community.P2PContract) error {
	_, err := w.store.Contracts.Add(contract)
	return err
}

// PostgresWriter writes through the Postgres repositories. Users are upserted by
// document, so their ids come from the database.
type PostgresWriter struct {
	store *postgres.Store
}

// NewPostgresWriter wraps store.
func NewPostgresWriter(store *postgres.Store) *PostgresWriter {
	return &PostgresWriter{store: store}
}

func (w *PostgresWriter) PutUser(ctx context.Context, user community.User) (int64, error) {
	saved, err := w.store.Users.Insert(ctx, user)
	if err != nil {
		return 0, err
	}
	return saved.ID, nil
}

func (w *PostgresWriter) PutMember(ctx context.Context, member community.Member) error {
	_, err := w.store.Members.Save(ctx, member)
	return err
}

func (w *PostgresWriter) PutRecord(ctx context.Context, record community.EnergyRecord) error {
	_, err := w.store.Records.Upsert(ctx, record)
	return err
}

func (w *PostgresWriter) PutAllocation(ctx context.Context, allocation community.PDEAllocation) error {
	_, err := w.store.Allocations.Upsert(ctx, allocation)
	return err
}

func (w *PostgresWriter) PutCredit(ctx context.Context, credit community.EnergyCredit) error {
	_, err := w.store.Credits.Insert(ctx, credit)
	return err
}

func (w *PostgresWriter) PutContract(ctx context.Context, contract community.P2PContract) error {
	_, err := w.store.Contracts.Insert(ctx, contract)
	return err
}

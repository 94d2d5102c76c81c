package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the database-level guarantees the
// services lean on: unique unlock pairs, the conditional credit debit, and
// gorm.ErrRecordNotFound for misses.

func unlockKey(userID uuid.UUID, profileID string) string {
	return userID.String() + "|" + profileID
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*model.User
	unlocks map[string]bool
	ledger  []*model.Transaction
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*model.User),
		unlocks: make(map[string]bool),
	}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*model.User
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) AssignProfileID(ctx context.Context, userID uuid.UUID, prefix string, start int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := start
	for _, user := range r.users {
		if user.ProfileID == nil {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(*user.ProfileID, prefix+"%d", &n); err == nil && n >= next {
			next = n + 1
		}
	}

	assigned := fmt.Sprintf("%s%d", prefix, next)
	user, ok := r.users[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	user.ProfileID = &assigned
	user.HasProfile = true
	return assigned, nil
}

func (r *fakeUserRepo) UnlockContact(ctx context.Context, userID uuid.UUID, profileID string, cost int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unlocks[unlockKey(userID, profileID)] {
		return apperror.ErrAlreadyUnlocked
	}
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if user.Credits < cost {
		return apperror.ErrInsufficientCredits
	}

	r.unlocks[unlockKey(userID, profileID)] = true
	user.Credits -= cost
	r.ledger = append(r.ledger, &model.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      model.TransactionTypeContactUnlock,
		Status:    model.TransactionStatusApproved,
		Credits:   -cost,
		ProfileID: &profileID,
	})
	return nil
}

func (r *fakeUserRepo) RecordFreeUnlock(ctx context.Context, userID uuid.UUID, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlocks[unlockKey(userID, profileID)] = true
	return nil
}

func (r *fakeUserRepo) HasUnlocked(ctx context.Context, userID uuid.UUID, profileID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unlocks[unlockKey(userID, profileID)], nil
}

func (r *fakeUserRepo) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]model.ContactUnlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var unlocks []model.ContactUnlock
	for key := range r.unlocks {
		var uid, pid = key[:36], key[37:]
		if uid == userID.String() {
			unlocks = append(unlocks, model.ContactUnlock{UserID: userID, ProfileID: pid})
		}
	}
	return unlocks, nil
}

func (r *fakeUserRepo) credits(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID].Credits
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	userRepo *fakeUserRepo
}

func newFakeProfileRepo(userRepo *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*model.Profile),
		userRepo: userRepo,
	}
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	copied := *profile
	r.profiles[profile.ProfileID] = &copied
	return nil
}

func (r *fakeProfileRepo) Save(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	copied.User = nil
	r.profiles[profile.ProfileID] = &copied
	return nil
}

func (r *fakeProfileRepo) FindByProfileID(ctx context.Context, profileID string) (*model.Profile, error) {
	r.mu.Lock()
	profile, ok := r.profiles[profileID]
	r.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	copied := *profile
	if owner, err := r.userRepo.FindByID(ctx, profile.UserID.String()); err == nil {
		copied.User = owner
	}
	return &copied, nil
}

func (r *fakeProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) Delete(ctx context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, profileID)
	return nil
}

func (r *fakeProfileRepo) ListVisible(ctx context.Context, filter dto.ProfileFilter, limit, offset int) ([]*model.Profile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var visible []*model.Profile
	for _, profile := range r.profiles {
		if profile.Status != model.ProfileStatusApproved {
			continue
		}
		r.userRepo.mu.Lock()
		owner, ok := r.userRepo.users[profile.UserID]
		ownerBlocked := ok && (owner.IsBanned || owner.IsRestricted || !owner.IsActive)
		r.userRepo.mu.Unlock()
		if ownerBlocked {
			continue
		}
		if filter.Gender != "" && profile.Gender != filter.Gender {
			continue
		}
		if filter.PresentDistrict != "" && profile.PresentDistrict != filter.PresentDistrict {
			continue
		}
		copied := *profile
		visible = append(visible, &copied)
	}

	total := int64(len(visible))
	if offset >= len(visible) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[offset:end], total, nil
}

func (r *fakeProfileRepo) ListByStatus(ctx context.Context, status model.ProfileStatus, limit, offset int) ([]*model.Profile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Profile
	for _, profile := range r.profiles {
		if profile.Status == status {
			copied := *profile
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeProfileRepo) FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Profile
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			copied := *profile
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeProfileRepo) get(profileID string) *model.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[profileID]
}

type fakeTxnRepo struct {
	mu       sync.Mutex
	txns     map[uuid.UUID]*model.Transaction
	userRepo *fakeUserRepo
}

func newFakeTxnRepo(userRepo *fakeUserRepo) *fakeTxnRepo {
	return &fakeTxnRepo{
		txns:     make(map[uuid.UUID]*model.Transaction),
		userRepo: userRepo,
	}
}

func (r *fakeTxnRepo) Create(ctx context.Context, txn *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	copied := *txn
	r.txns[txn.ID] = &copied
	return nil
}

func (r *fakeTxnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *txn
	return &copied, nil
}

func (r *fakeTxnRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var txns []*model.Transaction
	for _, txn := range r.txns {
		if txn.UserID == userID {
			copied := *txn
			txns = append(txns, &copied)
		}
	}
	return txns, int64(len(txns)), nil
}

func (r *fakeTxnRepo) ListByTypeAndStatus(ctx context.Context, txnType model.TransactionType, status model.TransactionStatus, limit, offset int) ([]*model.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var txns []*model.Transaction
	for _, txn := range r.txns {
		if txn.Type == txnType && txn.Status == status {
			copied := *txn
			txns = append(txns, &copied)
		}
	}
	return txns, int64(len(txns)), nil
}

func (r *fakeTxnRepo) ApprovePurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.txns[txnID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if txn.Type != model.TransactionTypePurchase {
		return nil, apperror.New(0, "transaction is not a purchase", apperror.ErrBadRequest)
	}
	if txn.Status != model.TransactionStatusPending {
		return nil, apperror.New(0, "purchase has already been processed", apperror.ErrConflict)
	}

	txn.Status = model.TransactionStatusApproved
	txn.ProcessedBy = &adminID

	r.userRepo.mu.Lock()
	if user, ok := r.userRepo.users[txn.UserID]; ok {
		user.Credits += txn.Credits
	}
	r.userRepo.mu.Unlock()

	addition := &model.Transaction{
		ID:      uuid.New(),
		UserID:  txn.UserID,
		Type:    model.TransactionTypeCreditAddition,
		Status:  model.TransactionStatusApproved,
		Credits: txn.Credits,
	}
	r.txns[addition.ID] = addition

	copied := *txn
	return &copied, nil
}

func (r *fakeTxnRepo) RejectPurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.txns[txnID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if txn.Type != model.TransactionTypePurchase {
		return nil, apperror.New(0, "transaction is not a purchase", apperror.ErrBadRequest)
	}
	if txn.Status != model.TransactionStatusPending {
		return nil, apperror.New(0, "purchase has already been processed", apperror.ErrConflict)
	}

	txn.Status = model.TransactionStatusRejected
	txn.ProcessedBy = &adminID

	copied := *txn
	return &copied, nil
}

func (r *fakeTxnRepo) AdjustCredits(ctx context.Context, userID, adminID uuid.UUID, credits int, note string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userRepo.mu.Lock()
	user, ok := r.userRepo.users[userID]
	if !ok {
		r.userRepo.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	if credits < 0 && user.Credits < -credits {
		r.userRepo.mu.Unlock()
		return nil, apperror.ErrInsufficientCredits
	}
	user.Credits += credits
	r.userRepo.mu.Unlock()

	txnType := model.TransactionTypeCreditAddition
	if credits < 0 {
		txnType = model.TransactionTypeCreditDeduct
	}
	txn := &model.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        txnType,
		Status:      model.TransactionStatusApproved,
		Credits:     credits,
		Note:        note,
		ProcessedBy: &adminID,
	}
	r.txns[txn.ID] = txn

	copied := *txn
	return &copied, nil
}

func (r *fakeTxnRepo) countByType(txnType model.TransactionType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, txn := range r.txns {
		if txn.Type == txnType {
			count++
		}
	}
	return count
}

type fakeBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[string]model.Bookmark
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: make(map[string]model.Bookmark)}
}

func (r *fakeBookmarkRepo) Add(ctx context.Context, bookmark *model.Bookmark) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := unlockKey(bookmark.UserID, bookmark.ProfileID)
	if _, ok := r.bookmarks[key]; ok {
		return false, nil
	}
	r.bookmarks[key] = *bookmark
	return true, nil
}

func (r *fakeBookmarkRepo) Remove(ctx context.Context, userID uuid.UUID, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookmarks, unlockKey(userID, profileID))
	return nil
}

func (r *fakeBookmarkRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookmarks []model.Bookmark
	for _, b := range r.bookmarks {
		if b.UserID == userID {
			bookmarks = append(bookmarks, b)
		}
	}
	return bookmarks, nil
}

func (r *fakeBookmarkRepo) Exists(ctx context.Context, userID uuid.UUID, profileID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bookmarks[unlockKey(userID, profileID)]
	return ok, nil
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*model.BiodataDraft
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[uuid.UUID]*model.BiodataDraft)}
}

func (r *fakeDraftRepo) Upsert(ctx context.Context, draft *model.BiodataDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *draft
	r.drafts[draft.UserID] = &copied
	return nil
}

func (r *fakeDraftRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.BiodataDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *draft
	return &copied, nil
}

func (r *fakeDraftRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, userID)
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*model.ProfileReport
	nextID  uint
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.ProfileReport), nextID: 1}
}

func (r *fakeReportRepo) Create(ctx context.Context, report *model.ProfileReport) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := unlockKey(report.ReporterID, report.ProfileID)
	if _, ok := r.reports[key]; ok {
		return false, nil
	}
	report.ID = r.nextID
	r.nextID++
	report.Status = model.ReportStatusOpen
	copied := *report
	r.reports[key] = &copied
	return true, nil
}

func (r *fakeReportRepo) ListOpen(ctx context.Context, limit, offset int) ([]model.ProfileReport, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []model.ProfileReport
	for _, report := range r.reports {
		if report.Status == model.ReportStatusOpen {
			open = append(open, *report)
		}
	}
	return open, int64(len(open)), nil
}

func (r *fakeReportRepo) Resolve(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, report := range r.reports {
		if report.ID == id {
			report.Status = model.ReportStatusResolved
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// fakeMeili records index mutations so tests can assert on what entered and
// left the search index.
type fakeMeili struct {
	mu      sync.Mutex
	indexed map[string]bool
}

func newFakeMeili() *fakeMeili {
	return &fakeMeili{indexed: make(map[string]bool)}
}

func (m *fakeMeili) IndexProfile(profile *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed[profile.ProfileID] = true
	return nil
}

func (m *fakeMeili) DeleteProfile(profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, profileID)
	return nil
}

func (m *fakeMeili) GenerateSearchToken(userRole string) (string, error) {
	return "search-token", nil
}

func (m *fakeMeili) has(profileID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexed[profileID]
}

type fakeImageStorage struct{}

func (fakeImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	return "https://cdn.example.com/" + folder + "/" + fileName, nil
}

func (fakeImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	return nil
}

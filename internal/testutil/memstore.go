package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/techikansh/Kanban-Board/internal/app/store"
	userstore "github.com/techikansh/Kanban-Board/internal/app/store/users"
	"github.com/techikansh/Kanban-Board/internal/app/system/normalize"
	"github.com/techikansh/Kanban-Board/internal/app/system/queryfilter"
	"github.com/techikansh/Kanban-Board/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemStore is an in-memory implementation of the store contracts with the
// same observable semantics as the Mongo stores (mongo.ErrNoDocuments for
// misses, atomic member add, idempotent member removal). Errors can be
// injected per operation to exercise failure paths.
type MemStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	projects map[primitive.ObjectID]models.Project
	tasks    map[primitive.ObjectID]models.Task

	// Fail maps an operation name ("DeleteByProject", "UpdateStatus", ...)
	// to the error it should return instead of running.
	Fail map[string]error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:    map[primitive.ObjectID]models.User{},
		projects: map[primitive.ObjectID]models.Project{},
		tasks:    map[primitive.ObjectID]models.Task{},
		Fail:     map[string]error{},
	}
}

// Set exposes m through the store contracts.
func (m *MemStore) Set() store.Set {
	return store.Set{Projects: memProjects{m}, Tasks: memTasks{m}, Users: memUsers{m}}
}

func (m *MemStore) fail(op string) error {
	return m.Fail[op]
}

// SeedUser registers a user with the given email.
func (m *MemStore) SeedUser(email string) models.User {
	u, err := memUsers{m}.Create(context.Background(), email, "ext-"+primitive.NewObjectID().Hex())
	if err != nil {
		panic(err)
	}
	return u
}

// SeedUnboundUser registers a user with no credential ref, as created
// before the identity provider was linked.
func (m *MemStore) SeedUnboundUser(email string) models.User {
	u, err := memUsers{m}.Create(context.Background(), email, "")
	if err != nil {
		panic(err)
	}
	return u
}

// SeedProject stores a project owned by ownerID with the given members.
func (m *MemStore) SeedProject(title string, ownerID primitive.ObjectID, members ...models.Membership) models.Project {
	if members == nil {
		members = []models.Membership{}
	}
	p, err := memProjects{m}.Create(context.Background(), models.Project{
		Title: title, TitleCI: text.Fold(title), OwnerID: ownerID, Members: members,
	})
	if err != nil {
		panic(err)
	}
	return p
}

// SeedTask stores a task in projectID.
func (m *MemStore) SeedTask(projectID, ownerID primitive.ObjectID, txt string, status models.TaskStatus) models.Task {
	t, err := memTasks{m}.Create(context.Background(), models.Task{
		Text: txt, TextCI: text.Fold(txt), Status: status, ProjectID: projectID, OwnerID: ownerID,
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Project returns the stored project and whether it exists.
func (m *MemStore) Project(id primitive.ObjectID) (models.Project, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	return cloneProject(p), ok
}

// Task returns the stored task and whether it exists.
func (m *MemStore) Task(id primitive.ObjectID) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

// TaskCount returns how many tasks reference projectID.
func (m *MemStore) TaskCount(projectID primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n
}

func cloneProject(p models.Project) models.Project {
	if p.Members != nil {
		p.Members = append([]models.Membership{}, p.Members...)
	}
	return p
}

/* ------------------------------- projects -------------------------------- */

type memProjects struct{ m *MemStore }

var _ store.Projects = memProjects{}

func (s memProjects) Create(_ context.Context, p models.Project) (models.Project, error) {
	if err := s.m.fail("CreateProject"); err != nil {
		return models.Project{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Members == nil {
		p.Members = []models.Membership{}
	}
	p.CreatedAt, p.UpdatedAt = now, now
	s.m.projects[p.ID] = cloneProject(p)
	return p, nil
}

func (s memProjects) GetByID(_ context.Context, id primitive.ObjectID) (models.Project, error) {
	if err := s.m.fail("GetProject"); err != nil {
		return models.Project{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.projects[id]
	if !ok {
		return models.Project{}, mongo.ErrNoDocuments
	}
	return cloneProject(p), nil
}

func (s memProjects) ListForUser(_ context.Context, userID primitive.ObjectID, f queryfilter.ProjectFilter) ([]models.Project, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Project{}
	for _, p := range s.m.projects {
		_, member := p.Member(userID)
		if (p.OwnerID == userID || member) && f.Matches(p) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memProjects) Update(_ context.Context, p models.Project, in models.ProjectInput) (models.Project, error) {
	if err := s.m.fail("UpdateProject"); err != nil {
		return models.Project{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cur, ok := s.m.projects[p.ID]
	if !ok {
		return models.Project{}, mongo.ErrNoDocuments
	}
	if in.Title != nil {
		cur.Title, cur.TitleCI = p.Title, p.TitleCI
	}
	if in.Description != nil {
		cur.Description = p.Description
	}
	if in.DueDate != nil {
		cur.DueDate = p.DueDate
	}
	if in.ClientPayment != nil {
		cur.ClientPayment = p.ClientPayment
	}
	if in.StoryPoints != nil {
		cur.StoryPoints = p.StoryPoints
	}
	cur.UpdatedAt = time.Now().UTC()
	s.m.projects[p.ID] = cur
	return cloneProject(cur), nil
}

func (s memProjects) AddMember(_ context.Context, projectID primitive.ObjectID, mb models.Membership) (bool, error) {
	if err := s.m.fail("AddMember"); err != nil {
		return false, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.projects[projectID]
	if !ok {
		return false, nil
	}
	if _, exists := p.Member(mb.UserID); exists {
		return false, nil
	}
	p.Members = append(append([]models.Membership{}, p.Members...), mb)
	p.UpdatedAt = time.Now().UTC()
	s.m.projects[projectID] = p
	return true, nil
}

func (s memProjects) RemoveMember(_ context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	if err := s.m.fail("RemoveMember"); err != nil {
		return false, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.projects[projectID]
	if !ok {
		return false, nil
	}
	kept := make([]models.Membership, 0, len(p.Members))
	for _, mb := range p.Members {
		if mb.UserID != userID {
			kept = append(kept, mb)
		}
	}
	if len(kept) == len(p.Members) {
		return false, nil
	}
	p.Members = kept
	p.UpdatedAt = time.Now().UTC()
	s.m.projects[projectID] = p
	return true, nil
}

func (s memProjects) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if err := s.m.fail("DeleteProject"); err != nil {
		return 0, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.projects[id]; !ok {
		return 0, nil
	}
	delete(s.m.projects, id)
	return 1, nil
}

func (s memProjects) ExistingIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.m.projects[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

/* --------------------------------- tasks --------------------------------- */

type memTasks struct{ m *MemStore }

var _ store.Tasks = memTasks{}

func (s memTasks) Create(_ context.Context, t models.Task) (models.Task, error) {
	if err := s.m.fail("CreateTask"); err != nil {
		return models.Task{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.StatusBacklog
	}
	t.CreatedAt, t.UpdatedAt = now, now
	s.m.tasks[t.ID] = t
	return t, nil
}

func (s memTasks) GetByID(_ context.Context, id primitive.ObjectID) (models.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tasks[id]
	if !ok {
		return models.Task{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (s memTasks) ListByProject(_ context.Context, projectID primitive.ObjectID, f queryfilter.TaskFilter) ([]models.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Task{}
	for _, t := range s.m.tasks {
		if t.ProjectID == projectID && f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s memTasks) Update(_ context.Context, t models.Task) (models.Task, error) {
	if err := s.m.fail("UpdateTask"); err != nil {
		return models.Task{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cur, ok := s.m.tasks[t.ID]
	if !ok {
		return models.Task{}, mongo.ErrNoDocuments
	}
	cur.Text, cur.TextCI, cur.Description, cur.Status = t.Text, t.TextCI, t.Description, t.Status
	cur.UpdatedAt = time.Now().UTC()
	s.m.tasks[t.ID] = cur
	return cur, nil
}

func (s memTasks) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.TaskStatus) (models.Task, error) {
	if err := s.m.fail("UpdateStatus"); err != nil {
		return models.Task{}, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cur, ok := s.m.tasks[id]
	if !ok {
		return models.Task{}, mongo.ErrNoDocuments
	}
	cur.Status = status
	cur.UpdatedAt = time.Now().UTC()
	s.m.tasks[id] = cur
	return cur, nil
}

func (s memTasks) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[id]; !ok {
		return 0, nil
	}
	delete(s.m.tasks, id)
	return 1, nil
}

func (s memTasks) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	if err := s.m.fail("DeleteByProject"); err != nil {
		return 0, err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for id, t := range s.m.tasks {
		if t.ProjectID == projectID {
			delete(s.m.tasks, id)
			n++
		}
	}
	return n, nil
}

func (s memTasks) ProjectIDs(_ context.Context) ([]primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, t := range s.m.tasks {
		if !seen[t.ProjectID] {
			seen[t.ProjectID] = true
			out = append(out, t.ProjectID)
		}
	}
	return out, nil
}

/* --------------------------------- users --------------------------------- */

type memUsers struct{ m *MemStore }

var _ store.Users = memUsers{}

func (s memUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	if err := s.m.fail("FindByEmail"); err != nil {
		return models.User{}, err
	}
	key := text.Fold(normalize.Email(email))
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.EmailCI == key {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (s memUsers) FindByCredentialRef(_ context.Context, ref string) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if ref != "" && u.CredentialRef == ref {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (s memUsers) Create(_ context.Context, email, credentialRef string) (models.User, error) {
	if !normalize.ValidEmail(email) {
		return models.User{}, userstore.ErrInvalidEmail
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	email = normalize.Email(email)
	for _, u := range s.m.users {
		if u.EmailCI == text.Fold(email) {
			return models.User{}, userstore.ErrDuplicateEmail
		}
		if credentialRef != "" && u.CredentialRef == credentialRef {
			return models.User{}, userstore.ErrAlreadyRegistered
		}
	}
	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		EmailCI:       text.Fold(email),
		CredentialRef: credentialRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.m.users[u.ID] = u
	return u, nil
}

func (s memUsers) SearchByEmail(_ context.Context, q, excludeEmail string) ([]models.User, error) {
	q = normalize.Email(q)
	out := []models.User{}
	if len([]rune(q)) < userstore.MinSearchLen {
		return out, nil
	}
	needle := text.Fold(q)
	exclude := text.Fold(normalize.Email(excludeEmail))

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.EmailCI != exclude && strings.Contains(u.EmailCI, needle) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmailCI < out[j].EmailCI })
	if len(out) > userstore.SearchLimit {
		out = out[:userstore.SearchLimit]
	}
	return out, nil
}

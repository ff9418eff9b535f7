package application

import (
	"context"
	"sort"
	"sync"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// --- Mock implementations ---

// mockGit succeeds on everything unless a function field overrides a call.
// It records the calls the tests assert on.
type mockGit struct {
	currentBranchFn func() (string, error)
	stashPushFn     func(label string) (*model.StashHandle, error)
	stashPopFn      func(h *model.StashHandle) error
	createBranchFn  func(name, from string) error
	checkoutFn      func(branch string) error
	commitFn        func(paths []string, message string) error
	pushFn          func(branch, remote string) error
	fetchFn         func(remote string) error
	mergeFFFn       func(remoteBranch string) error
	divergenceFn    func(remoteBranch string) (model.Divergence, error)
	headFn          func() (string, error)
	changedFn       func(oldRef, newRef string) ([]string, error)
	ensureRemoteFn  func(name, url string) error

	checkouts []string
	branches  []string
	commits   []string
	pushes    []string // "remote/branch"
	fetches   int
	stashes   []string
	pops      []*model.StashHandle
	remotes   map[string]string
}

func (m *mockGit) CurrentBranch(context.Context) (string, error) {
	if m.currentBranchFn != nil {
		return m.currentBranchFn()
	}
	return "main", nil
}

func (m *mockGit) IsClean(context.Context) (bool, error) { return true, nil }

func (m *mockGit) StashPush(_ context.Context, label string) (*model.StashHandle, error) {
	m.stashes = append(m.stashes, label)
	if m.stashPushFn != nil {
		return m.stashPushFn(label)
	}
	return &model.StashHandle{SHA: "stashsha", Label: label}, nil
}

func (m *mockGit) StashPop(_ context.Context, h *model.StashHandle) error {
	m.pops = append(m.pops, h)
	if m.stashPopFn != nil {
		return m.stashPopFn(h)
	}
	return nil
}

func (m *mockGit) CreateBranch(_ context.Context, name, from string) error {
	m.branches = append(m.branches, name)
	if m.createBranchFn != nil {
		return m.createBranchFn(name, from)
	}
	return nil
}

func (m *mockGit) Checkout(_ context.Context, branch string) error {
	m.checkouts = append(m.checkouts, branch)
	if m.checkoutFn != nil {
		return m.checkoutFn(branch)
	}
	return nil
}

func (m *mockGit) Commit(_ context.Context, paths []string, message string) error {
	m.commits = append(m.commits, message)
	if m.commitFn != nil {
		return m.commitFn(paths, message)
	}
	return nil
}

func (m *mockGit) Push(_ context.Context, branch, remote string) error {
	m.pushes = append(m.pushes, remote+"/"+branch)
	if m.pushFn != nil {
		return m.pushFn(branch, remote)
	}
	return nil
}

func (m *mockGit) Fetch(_ context.Context, remote string) error {
	m.fetches++
	if m.fetchFn != nil {
		return m.fetchFn(remote)
	}
	return nil
}

func (m *mockGit) MergeFastForwardOnly(_ context.Context, remoteBranch string) error {
	if m.mergeFFFn != nil {
		return m.mergeFFFn(remoteBranch)
	}
	return nil
}

func (m *mockGit) Divergence(_ context.Context, remoteBranch string) (model.Divergence, error) {
	if m.divergenceFn != nil {
		return m.divergenceFn(remoteBranch)
	}
	return model.Divergence{}, nil
}

func (m *mockGit) HeadCommit(context.Context) (string, error) {
	if m.headFn != nil {
		return m.headFn()
	}
	return "headsha", nil
}

func (m *mockGit) ChangedPaths(_ context.Context, oldRef, newRef string) ([]string, error) {
	if m.changedFn != nil {
		return m.changedFn(oldRef, newRef)
	}
	return nil, nil
}

func (m *mockGit) EnsureRemote(_ context.Context, name, url string) error {
	if m.remotes == nil {
		m.remotes = make(map[string]string)
	}
	m.remotes[name] = url
	if m.ensureRemoteFn != nil {
		return m.ensureRemoteFn(name, url)
	}
	return nil
}

type mockHost struct {
	testConnectionFn func() (model.ConnectionStatus, error)
	fileExistsFn     func(path, branch string) (bool, error)
	ensureForkFn     func() (string, error)
	createPRFn       func(spec driven.PullRequestSpec) (*model.PullRequestRef, error)

	prSpecs []driven.PullRequestSpec
	probes  int
}

func (m *mockHost) TestConnection(context.Context) (model.ConnectionStatus, error) {
	m.probes++
	if m.testConnectionFn != nil {
		return m.testConnectionFn()
	}
	return model.ConnectionStatus{OK: true, HasPushAccess: true}, nil
}

func (m *mockHost) FileExistsOnBranch(_ context.Context, path, branch string) (bool, error) {
	if m.fileExistsFn != nil {
		return m.fileExistsFn(path, branch)
	}
	return false, nil
}

func (m *mockHost) EnsureFork(context.Context) (string, error) {
	if m.ensureForkFn != nil {
		return m.ensureForkFn()
	}
	return "bob", nil
}

func (m *mockHost) ForkRemoteURL(forkOwner string) string {
	return "https://github.com/" + forkOwner + "/catalog.git"
}

func (m *mockHost) CreatePullRequest(_ context.Context, spec driven.PullRequestSpec) (*model.PullRequestRef, error) {
	m.prSpecs = append(m.prSpecs, spec)
	if m.createPRFn != nil {
		return m.createPRFn(spec)
	}
	return &model.PullRequestRef{Number: 42, URL: "https://github.com/acme/catalog/pull/42"}, nil
}

type mockTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.RetryTask
	adds  int
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[string]model.RetryTask)}
}

func (m *mockTaskStore) Add(_ context.Context, task model.RetryTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds++
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskStore) Get(_ context.Context, taskID string) (*model.RetryTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (m *mockTaskStore) List(context.Context) ([]model.RetryTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.RetryTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockTaskStore) Update(_ context.Context, task model.RetryTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskStore) ClearCompleted(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, t := range m.tasks {
		if t.Status == model.TaskCompleted {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockTaskStore) only(taskID string) model.RetryTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[taskID]
}

type mockConfigStore struct {
	cfg     *model.RepoConfig
	loadErr error
}

func (m *mockConfigStore) Load(context.Context) (*model.RepoConfig, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	cfg := *m.cfg
	return &cfg, nil
}

func (m *mockConfigStore) Save(_ context.Context, cfg model.RepoConfig) error {
	m.cfg = &cfg
	return nil
}

type mockHistory struct {
	entries []model.PublishLogEntry
}

func (m *mockHistory) Append(_ context.Context, entry model.PublishLogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistory) List(context.Context) ([]model.PublishLogEntry, error) {
	return m.entries, nil
}

type mockIndexer struct {
	paths [][]string
	err   error
}

func (m *mockIndexer) Reindex(_ context.Context, changedPaths []string) error {
	m.paths = append(m.paths, changedPaths)
	return m.err
}

package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
	"github.com/campus-sports/intramural-portal/storage"
)

// callLog records repository write calls in order, shared across fakes so
// tests can assert on cross-repository sequencing.
type callLog struct {
	entries []string
}

func (l *callLog) add(name string) {
	if l != nil {
		l.entries = append(l.entries, name)
	}
}

// fakeTxRunner satisfies repositories.TxRunner without a database. The
// callback runs against a nil executor, which the fake repositories ignore.
type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeUserRepo struct {
	users  map[int]models.User
	nextID int
	log    *callLog
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]models.User), nextID: 1}
}

func (f *fakeUserRepo) seed(user models.User) models.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	} else if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ListStudents(ctx context.Context) ([]models.User, error) {
	students := make([]models.User, 0)
	for _, user := range f.users {
		if user.Role == models.RoleStudent {
			students = append(students, user)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (f *fakeUserRepo) ListByTeamID(ctx context.Context, teamID int) ([]models.User, error) {
	members := make([]models.User, 0)
	for _, user := range f.users {
		if user.TeamID != nil && *user.TeamID == teamID {
			members = append(members, user)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (f *fakeUserRepo) AssignTeam(ctx context.Context, exec repositories.SQLExecutor, userID int, teamID *int) error {
	f.log.add("assign_team")
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.TeamID = teamID
	f.users[userID] = user
	return nil
}

func (f *fakeUserRepo) ClearTeamMembers(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	f.log.add("clear_team_members")
	for id, user := range f.users {
		if user.TeamID != nil && *user.TeamID == teamID {
			user.TeamID = nil
			f.users[id] = user
		}
	}
	return nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	count := 0
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeTeamRepo struct {
	teams        map[int]models.Team
	nextID       int
	log          *callLog
	distribution []models.TeamDistribution
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]models.Team), nextID: 1}
}

func (f *fakeTeamRepo) seed(team models.Team) models.Team {
	if team.ID == 0 {
		team.ID = f.nextID
		f.nextID++
	} else if team.ID >= f.nextID {
		f.nextID = team.ID + 1
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	f.teams[team.ID] = team
	return team
}

func (f *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	f.log.add("create_team")
	team.ID = f.nextID
	f.nextID++
	team.CreatedAt = time.Now()
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(f.teams))
	for _, team := range f.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID > teams[j].ID })
	return teams, nil
}

func (f *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	f.log.add("update_team")
	if _, ok := f.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	f.log.add("delete_team")
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamRepo) Count(ctx context.Context) (int, error) {
	return len(f.teams), nil
}

func (f *fakeTeamRepo) MemberCounts(ctx context.Context) ([]models.TeamDistribution, error) {
	return f.distribution, nil
}

type fakeEventRepo struct {
	events map[int]models.Event
	nextID int
	log    *callLog
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int]models.Event), nextID: 1}
}

func (f *fakeEventRepo) seed(event models.Event) models.Event {
	if event.ID == 0 {
		event.ID = f.nextID
		f.nextID++
	} else if event.ID >= f.nextID {
		f.nextID = event.ID + 1
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	f.events[event.ID] = event
	return event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = f.nextID
	f.nextID++
	event.CreatedAt = time.Now()
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return &event, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	events := make([]models.Event, 0, len(f.events))
	for _, event := range f.events {
		if filter.UpcomingFrom != nil && event.Date.Before(*filter.UpcomingFrom) {
			continue
		}
		events = append(events, event)
	}
	if filter.UpcomingFrom != nil {
		sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	} else {
		sort.Slice(events, func(i, j int) bool { return events[i].ID > events[j].ID })
	}
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}
	return events, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	f.log.add("delete_event")
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Count(ctx context.Context) (int, error) {
	return len(f.events), nil
}

type fakePostRepo struct {
	posts  map[int]models.Post
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int]models.Post), nextID: 1}
}

func (f *fakePostRepo) seed(post models.Post) models.Post {
	if post.ID == 0 {
		post.ID = f.nextID
		f.nextID++
	} else if post.ID >= f.nextID {
		f.nextID = post.ID + 1
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	f.posts[post.ID] = post
	return post
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	post.ID = f.nextID
	f.nextID++
	post.CreatedAt = time.Now()
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return &post, nil
}

func (f *fakePostRepo) List(ctx context.Context, filter repositories.ListPostsFilter) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(f.posts))
	for _, post := range f.posts {
		if filter.AuthorRole != nil {
			if post.Author == nil || post.Author.Role != *filter.AuthorRole {
				continue
			}
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return repositories.ErrPostNotFound
	}
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePostRepo) UpdateImageURL(ctx context.Context, id int, imageURL *string) error {
	post, ok := f.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.ImageURL = imageURL
	f.posts[id] = post
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) Count(ctx context.Context) (int, error) {
	return len(f.posts), nil
}

type fakeParticipantRepo struct {
	rows   map[int]models.EventParticipant
	nextID int
	log    *callLog
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{rows: make(map[int]models.EventParticipant), nextID: 1}
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *models.EventParticipant) error {
	for _, existing := range f.rows {
		if existing.EventID == p.EventID && existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = f.nextID
	f.nextID++
	p.JoinedAt = time.Now()
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeParticipantRepo) FindByEventAndUser(ctx context.Context, eventID, userID int) (*models.EventParticipant, error) {
	for _, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			r := row
			return &r, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) DeleteByEventAndUser(ctx context.Context, eventID, userID int) error {
	for id, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			delete(f.rows, id)
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) DeleteByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	f.log.add("delete_participations")
	for id, row := range f.rows {
		if row.EventID == eventID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeParticipantRepo) CountByEvent(ctx context.Context, eventID int) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipantRepo) MapByUser(ctx context.Context, userID int, eventIDs []int) (map[int]models.EventParticipant, error) {
	wanted := make(map[int]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	result := make(map[int]models.EventParticipant)
	for _, row := range f.rows {
		if row.UserID == userID && wanted[row.EventID] {
			result[row.EventID] = row
		}
	}
	return result, nil
}

type fakeBroadcaster struct {
	posts []models.Post
}

func (f *fakeBroadcaster) BroadcastPost(post models.Post) {
	f.posts = append(f.posts, post)
}

type fakeUploader struct {
	keys         []string
	contentTypes []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return &storage.UploadResult{
		Key:      key,
		Location: fmt.Sprintf("https://cdn.example.test/%s", key),
	}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return fmt.Sprintf("https://cdn.example.test/%s", key)
}

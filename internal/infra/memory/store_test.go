package memory

import (
	"context"
	"testing"

	"quizhub-service/internal/domain"
)

func TestStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.CreateUser(ctx, domain.User{Email: "a@x.com", Role: domain.RolePlayer}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser(ctx, domain.User{Email: "A@x.com ", Role: domain.RolePlayer}); err != domain.ErrDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
	taken, _ := store.Exists(ctx, domain.FieldUserEmail, "a@x.com")
	if !taken {
		t.Fatalf("expected email to be taken")
	}
}

func TestRecordAnswerOncePerPair(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	player, _ := store.CreateUser(ctx, domain.User{Email: "p@x.com", Role: domain.RolePlayer})
	designer, _ := store.CreateUser(ctx, domain.User{Email: "d@x.com", FirstName: "Sara", LastName: "Ahmadi", Role: domain.RoleDesigner})
	qID := seedQuestion(t, store, designer, 2)

	if err := store.RecordAnswer(ctx, player, qID, true, 1); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordAnswer(ctx, player, qID, true, 1); err != domain.ErrDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}

	user, _ := store.UserByID(ctx, player)
	if user.Score != 1 {
		t.Fatalf("expected score 1, got %d", user.Score)
	}

	history, _ := store.AnsweredHistory(ctx, player)
	if len(history) != 1 || history[0].DesignerName != "Sara Ahmadi" || !history[0].Correct {
		t.Fatalf("unexpected history %+v", history)
	}

	stats, _ := store.ListDesignedQuestionStats(ctx, designer)
	if len(stats) != 1 || stats[0].Correct != 1 || stats[0].NotCorrect != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRandomUnansweredQuestionSkipsAnswered(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	player, _ := store.CreateUser(ctx, domain.User{Email: "p@x.com", Role: domain.RolePlayer})
	designer, _ := store.CreateUser(ctx, domain.User{Email: "d@x.com", Role: domain.RoleDesigner})
	first := seedQuestion(t, store, designer, 1)
	second := seedQuestion(t, store, designer, 3)

	_ = store.RecordAnswer(ctx, player, first, true, 1)

	for i := 0; i < 10; i++ {
		q, err := store.RandomUnansweredQuestion(ctx, player, nil)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		if q.ID != second {
			t.Fatalf("expected only unanswered question %d, got %d", second, q.ID)
		}
	}

	_ = store.RecordAnswer(ctx, player, second, false, -1)
	if _, err := store.RandomUnansweredQuestion(ctx, player, nil); err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateQuestionStoresFourOrderedOptions(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	designer, _ := store.CreateUser(ctx, domain.User{Email: "d@x.com", Role: domain.RoleDesigner})
	qID := seedQuestion(t, store, designer, 4)

	opts, _ := store.OptionsFor(ctx, qID)
	if len(opts) != domain.OptionCount {
		t.Fatalf("expected 4 options, got %d", len(opts))
	}
	for i, o := range opts {
		if o.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, o.Position)
		}
	}
	q, _ := store.QuestionByID(ctx, qID)
	if q.CorrectOption != 4 {
		t.Fatalf("expected correct option 4, got %d", q.CorrectOption)
	}
}

func TestLinkSimilarQuestionsSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	designer, _ := store.CreateUser(ctx, domain.User{Email: "d@x.com", Role: domain.RoleDesigner})
	a := seedQuestion(t, store, designer, 1)
	b := seedQuestion(t, store, designer, 1)
	c := seedQuestion(t, store, designer, 1)

	if n, _ := store.LinkSimilarQuestions(ctx, a, []int64{b}); n != 1 {
		t.Fatalf("expected 1 link, got %d", n)
	}
	if n, _ := store.LinkSimilarQuestions(ctx, a, []int64{b, c}); n != 1 {
		t.Fatalf("expected only the new link, got %d", n)
	}
	ids, _ := store.SimilarQuestionIDs(ctx, a)
	if len(ids) != 2 || ids[0] != b || ids[1] != c {
		t.Fatalf("unexpected similar ids %v", ids)
	}
}

func TestFollowEdges(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := store.Follow(ctx, 1, 2); err != domain.ErrDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if ok, _ := store.IsFollowing(ctx, 2, 1); ok {
		t.Fatalf("edges must be directed")
	}
	if err := store.Unfollow(ctx, 1, 2); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := store.Unfollow(ctx, 1, 2); err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func seedQuestion(t *testing.T, store *Store, designerID int64, correct int) int64 {
	t.Helper()
	ctx := context.Background()
	cats, _ := store.ListCategories(ctx)
	var catID int64
	if len(cats) == 0 {
		id, err := store.CreateCategory(ctx, "general")
		if err != nil {
			t.Fatalf("create category: %v", err)
		}
		catID = id
	} else {
		catID = cats[0].ID
	}
	id, err := store.CreateQuestion(ctx, domain.NewQuestion{
		Text:          "What is 2 + 2?",
		Options:       [domain.OptionCount]string{"3", "4", "5", "6"},
		CorrectOption: correct,
		Level:         1,
		CategoryID:    catID,
		DesignerID:    designerID,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return id
}

func TestListCategoriesCountsQuestions(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	designer, _ := store.CreateUser(ctx, domain.User{Email: "d@x.com", Role: domain.RoleDesigner})
	seedQuestion(t, store, designer, 1)
	seedQuestion(t, store, designer, 2)
	if _, err := store.CreateCategory(ctx, "empty"); err != nil {
		t.Fatalf("create category: %v", err)
	}

	cats, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 2 || cats[0].QuestionCount != 2 || cats[1].QuestionCount != 0 {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

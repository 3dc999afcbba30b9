package app_test

import (
	"context"
	"testing"
	"time"

	"quizhub-service/internal/app"
	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/infra/memory"

	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store    *memory.Store
	accounts *app.AccountService
	quiz     *app.QuizService
	social   *app.SocialService
	catalog  *app.CatalogService
}

func newFixture() fixture {
	store := memory.NewStore()
	return fixture{
		store:    store,
		accounts: app.NewAccountService(store, memory.NewSessionStore(), auth.NewIssuer("fixture-secret-value", time.Hour), bcrypt.MinCost),
		quiz:     app.NewQuizService(store),
		social:   app.NewSocialService(store),
		catalog:  app.NewCatalogService(store),
	}
}

func (f fixture) user(t *testing.T, email string, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()
	token, err := f.accounts.Signup(ctx, app.SignupInput{FirstName: "Ali", LastName: "Rezaei", Email: email, Password: "pw", Role: role})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	user, err := f.accounts.Authenticate(ctx, "Bearer "+token)
	if err != nil {
		t.Fatalf("authenticate %s: %v", email, err)
	}
	return user
}

func (f fixture) question(t *testing.T, designer domain.User, categoryID int64, correct int) int64 {
	t.Helper()
	id, err := f.quiz.CreateQuestion(context.Background(), designer, app.NewQuestionInput{
		Text:       "What is 2 + 2?",
		Options:    [domain.OptionCount]string{"3", "4", "5", "6"},
		Correct:    correct,
		Level:      1,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return id
}

func expectMessage(t *testing.T, err error, kind domain.Kind, msg string) {
	t.Helper()
	de := domain.AsError(err)
	if err == nil || de.Kind != kind || de.Message != msg {
		t.Fatalf("expected %s %q, got %v", kind, msg, err)
	}
}

func TestCheckAnswerScoresOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	designer := f.user(t, "d@x.com", domain.RoleDesigner)
	player := f.user(t, "p@x.com", domain.RolePlayer)
	cat, _ := f.catalog.CreateCategory(ctx, designer, "math")
	right := f.question(t, designer, cat, 2)
	wrong := f.question(t, designer, cat, 3)

	correct, err := f.quiz.CheckAnswer(ctx, player, right, 2)
	if err != nil || !correct {
		t.Fatalf("expected correct, got %v %v", correct, err)
	}
	correct, err = f.quiz.CheckAnswer(ctx, player, wrong, 1)
	if err != nil || correct {
		t.Fatalf("expected incorrect, got %v %v", correct, err)
	}
	_, err = f.quiz.CheckAnswer(ctx, player, right, 2)
	expectMessage(t, err, domain.KindConflict, domain.MsgAlreadyAnswered)

	stored, _ := f.store.UserByID(ctx, player.ID)
	if stored.Score != 0 {
		t.Fatalf("expected score 0 after +1 and -1, got %d", stored.Score)
	}
}

func TestCheckAnswerValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	designer := f.user(t, "d@x.com", domain.RoleDesigner)
	player := f.user(t, "p@x.com", domain.RolePlayer)

	_, err := f.quiz.CheckAnswer(ctx, player, 0, 1)
	expectMessage(t, err, domain.KindValidation, domain.EmptyFieldMessage(domain.LabelQuestionID))

	_, err = f.quiz.CheckAnswer(ctx, player, 7, 5)
	expectMessage(t, err, domain.KindValidation, domain.RangeMessage(domain.LabelAnswer, 1, 4))

	_, err = f.quiz.CheckAnswer(ctx, player, 77, 1)
	expectMessage(t, err, domain.KindNotFound, domain.MsgQuestionMissing)

	_, err = f.quiz.CheckAnswer(ctx, designer, 77, 1)
	expectMessage(t, err, domain.KindForbidden, domain.MsgAccessDenied)
}

func TestNextQuestionModes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	designer := f.user(t, "d@x.com", domain.RoleDesigner)
	player := f.user(t, "p@x.com", domain.RolePlayer)
	math, _ := f.catalog.CreateCategory(ctx, designer, "math")
	art, _ := f.catalog.CreateCategory(ctx, designer, "art")
	q := f.question(t, designer, math, 1)

	if _, err := f.quiz.NextQuestion(ctx, player, app.SelectCategory, art); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected no question in empty category, got %v", err)
	}
	got, err := f.quiz.NextQuestion(ctx, player, app.SelectRandom, 0)
	if err != nil || got.ID != q {
		t.Fatalf("expected question %d, got %+v %v", q, got, err)
	}

	_, err = f.quiz.NextQuestion(ctx, player, "", 0)
	expectMessage(t, err, domain.KindValidation, domain.EmptyFieldMessage(domain.LabelQuestionKind))
	_, err = f.quiz.NextQuestion(ctx, player, "hardest", 0)
	expectMessage(t, err, domain.KindValidation, domain.MsgInvalidQuestionKey)
	_, err = f.quiz.NextQuestion(ctx, player, app.SelectCategory, 0)
	expectMessage(t, err, domain.KindValidation, domain.EmptyFieldMessage(domain.LabelCategoryID))
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	designer := f.user(t, "d@x.com", domain.RoleDesigner)
	cat, _ := f.catalog.CreateCategory(ctx, designer, "math")

	in := app.NewQuestionInput{Text: "q", Options: [domain.OptionCount]string{"a", "", "c", "d"}, Correct: 1, Level: 1, CategoryID: cat}
	_, err := f.quiz.CreateQuestion(ctx, designer, in)
	expectMessage(t, err, domain.KindValidation, domain.EmptyFieldMessage(domain.OptionLabel(2)))

	in.Options[1] = "b"
	in.Level = 9
	_, err = f.quiz.CreateQuestion(ctx, designer, in)
	expectMessage(t, err, domain.KindValidation, domain.RangeMessage(domain.LabelLevel, 1, 5))

	in.Level = 3
	in.CategoryID = 404
	_, err = f.quiz.CreateQuestion(ctx, designer, in)
	expectMessage(t, err, domain.KindNotFound, domain.MsgCategoryNotFound)
}

func TestSimilarLinksAreDeduplicated(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	designer := f.user(t, "d@x.com", domain.RoleDesigner)
	cat, _ := f.catalog.CreateCategory(ctx, designer, "math")
	a := f.question(t, designer, cat, 1)
	b := f.question(t, designer, cat, 1)

	if err := f.quiz.SetSimilar(ctx, designer, a, []int64{b, b}); err != nil {
		t.Fatalf("set similar: %v", err)
	}
	if err := f.quiz.SetSimilar(ctx, designer, a, []int64{b}); err != nil {
		t.Fatalf("set similar again: %v", err)
	}
	ids, err := f.quiz.GetSimilar(ctx, designer, a)
	if err != nil || len(ids) != 1 || ids[0] != b {
		t.Fatalf("expected [%d], got %v %v", b, ids, err)
	}

	_, err = f.quiz.GetSimilar(ctx, designer, 404)
	expectMessage(t, err, domain.KindNotFound, domain.MsgQuestionNotFound)
}

package http

import (
	"net/http"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"

	"go.uber.org/zap"
)

// Handler exposes the quiz use cases as JSON POST endpoints.
type Handler struct {
	accounts *app.AccountService
	social   *app.SocialService
	quiz     *app.QuizService
	catalog  *app.CatalogService
	logger   *zap.Logger
}

func NewHandler(accounts *app.AccountService, social *app.SocialService, quiz *app.QuizService, catalog *app.CatalogService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{accounts: accounts, social: social, quiz: quiz, catalog: catalog, logger: logger}
}

type signupRequest struct {
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Type      domain.Role `json:"type"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	Type  domain.Role `json:"type"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.accounts.Signup(r.Context(), app.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Type,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, tokenResponse{Token: token, Type: req.Type})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, tokenResponse{Token: res.Token, Type: res.Role})
}

type tokenStatusResponse struct {
	Valid bool        `json:"valid"`
	Type  domain.Role `json:"type"`
}

func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	status, err := h.accounts.ValidateToken(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, tokenStatusResponse{Valid: status.Valid, Type: status.Role})
}

type userTargetRequest struct {
	UserID looseInt `json:"user_id"`
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	var req userTargetRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.social.Follow(r.Context(), callerFrom(r.Context()), int64(req.UserID)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, nil)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	var req userTargetRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.social.Unfollow(r.Context(), callerFrom(r.Context()), int64(req.UserID)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, nil)
}

type scoreRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (h *Handler) ScorePlayer(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.Scoreboard(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]scoreRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, scoreRow{ID: e.ID, Name: e.Name, Score: e.Score})
	}
	h.ok(w, newTable(rows))
}

type designerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type answeredRow struct {
	ID       int64       `json:"id"`
	Question string      `json:"question"`
	Correct  bool        `json:"correct"`
	Designer designerRef `json:"designer"`
}

func (h *Handler) AnsweredQuestion(w http.ResponseWriter, r *http.Request) {
	history, err := h.quiz.AnsweredQuestions(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]answeredRow, 0, len(history))
	for _, a := range history {
		rows = append(rows, answeredRow{
			ID:       a.QuestionID,
			Question: a.QuestionText,
			Correct:  a.Correct,
			Designer: designerRef{ID: a.DesignerID, Name: a.DesignerName},
		})
	}
	h.ok(w, newTable(rows))
}

type nextQuestionRequest struct {
	Type string   `json:"type"`
	ID   looseInt `json:"id"`
}

type playableQuestion struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (h *Handler) GetNotAnsweredQuestion(w http.ResponseWriter, r *http.Request) {
	var req nextQuestionRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.quiz.NextQuestion(r.Context(), callerFrom(r.Context()), req.Type, int64(req.ID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, playableQuestion{ID: q.ID, Question: q.Text, Options: q.Options})
}

type checkAnswerRequest struct {
	QuestionID looseInt `json:"question_id"`
	Option     looseInt `json:"option"`
}

type checkAnswerResponse struct {
	Correct bool `json:"correct"`
}

func (h *Handler) CheckQuestionAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkAnswerRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	correct, err := h.quiz.CheckAnswer(r.Context(), callerFrom(r.Context()), int64(req.QuestionID), int(req.Option))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, checkAnswerResponse{Correct: correct})
}

type designerViewRequest struct {
	DesignerID looseInt `json:"designer_id"`
}

type designerViewResponse struct {
	FirstName               string `json:"firstname"`
	LastName                string `json:"lastname"`
	Email                   string `json:"email"`
	DesignedCount           int    `json:"designedCount"`
	CorrectAnsweredCount    int    `json:"correctAnsweredCount"`
	NotCorrectAnsweredCount int    `json:"notCorrectAnsweredCount"`
	IsFollowing             bool   `json:"isFollowing"`
}

func (h *Handler) DesignerView(w http.ResponseWriter, r *http.Request) {
	var req designerViewRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.social.DesignerView(r.Context(), callerFrom(r.Context()), int64(req.DesignerID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, designerViewResponse{
		FirstName:               p.FirstName,
		LastName:                p.LastName,
		Email:                   p.Email,
		DesignedCount:           p.DesignedCount,
		CorrectAnsweredCount:    p.CorrectAnsweredCount,
		NotCorrectAnsweredCount: p.NotCorrectAnsweredCount,
		IsFollowing:             p.IsFollowing,
	})
}

type playerViewRequest struct {
	PlayerID looseInt `json:"player_id"`
}

type playerViewResponse struct {
	FirstName             string `json:"firstname"`
	LastName              string `json:"lastname"`
	Email                 string `json:"email"`
	PlayerScore           int    `json:"playerScore"`
	CorrectAnswerCount    int    `json:"correctAnswerCount"`
	NotCorrectAnswerCount int    `json:"notCorrectAnswerCount"`
	IsFollowing           bool   `json:"isFollowing"`
}

func (h *Handler) PlayerView(w http.ResponseWriter, r *http.Request) {
	var req playerViewRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.social.PlayerView(r.Context(), callerFrom(r.Context()), int64(req.PlayerID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, playerViewResponse{
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Email:                 p.Email,
		PlayerScore:           p.Score,
		CorrectAnswerCount:    p.CorrectAnswerCount,
		NotCorrectAnswerCount: p.NotCorrectAnswerCount,
		IsFollowing:           p.IsFollowing,
	})
}

type designedRow struct {
	ID              int64  `json:"id"`
	Question        string `json:"question"`
	CorrectCount    int    `json:"correctCount"`
	NotCorrectCount int    `json:"notCorrectCount"`
}

func (h *Handler) GetDesignedQuestion(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quiz.DesignedQuestions(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]designedRow, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, designedRow{
			ID:              st.QuestionID,
			Question:        st.QuestionText,
			CorrectCount:    st.Correct,
			NotCorrectCount: st.NotCorrect,
		})
	}
	h.ok(w, newTable(rows))
}

type questionRow struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
}

func (h *Handler) GetAllQuestion(w http.ResponseWriter, r *http.Request) {
	questions, err := h.quiz.AllQuestions(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, questionRow{ID: q.ID, Question: q.Text})
	}
	h.ok(w, newTable(rows))
}

type setSimilarRequest struct {
	QuestionID         looseInt   `json:"question_id"`
	SimilarQuestionIDs []looseInt `json:"similar_question_ids"`
}

func (h *Handler) SetSimilarQuestion(w http.ResponseWriter, r *http.Request) {
	var req setSimilarRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ids := make([]int64, 0, len(req.SimilarQuestionIDs))
	for _, id := range req.SimilarQuestionIDs {
		ids = append(ids, int64(id))
	}
	if err := h.quiz.SetSimilar(r.Context(), callerFrom(r.Context()), int64(req.QuestionID), ids); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, nil)
}

type questionIDRequest struct {
	QuestionID looseInt `json:"question_id"`
}

func (h *Handler) GetSimilarQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionIDRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ids, err := h.quiz.GetSimilar(r.Context(), callerFrom(r.Context()), int64(req.QuestionID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, newTable(ids))
}

type newQuestionRequest struct {
	Question     string   `json:"question"`
	FirstOption  string   `json:"firstOption"`
	SecondOption string   `json:"secondOption"`
	ThirdOption  string   `json:"thirdOption"`
	FourthOption string   `json:"fourthOption"`
	Correct      looseInt `json:"correct"`
	Level        looseInt `json:"level"`
	Category     looseInt `json:"category"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *Handler) NewDesignedQuestion(w http.ResponseWriter, r *http.Request) {
	var req newQuestionRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.quiz.CreateQuestion(r.Context(), callerFrom(r.Context()), app.NewQuestionInput{
		Text:       req.Question,
		Options:    [domain.OptionCount]string{req.FirstOption, req.SecondOption, req.ThirdOption, req.FourthOption},
		Correct:    int(req.Correct),
		Level:      int(req.Level),
		CategoryID: int64(req.Category),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, createdResponse{ID: id})
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, newTable(categories))
}

type newCategoryRequest struct {
	Category string `json:"category"`
}

func (h *Handler) NewCategory(w http.ResponseWriter, r *http.Request) {
	var req newCategoryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.catalog.CreateCategory(r.Context(), callerFrom(r.Context()), req.Category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, createdResponse{ID: id})
}

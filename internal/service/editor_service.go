package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
	"github.com/Nayeem09864/exam-management-system/internal/editor"
	apperrors "github.com/Nayeem09864/exam-management-system/internal/pkg/errors"
)

var (
	// ErrFormNotFound - форма не открыта, уже отправлена, отменена или удалена по простою
	ErrFormNotFound = fmt.Errorf("%w: form not found", apperrors.ErrNotFound)
	// ErrFormForbidden - форма открыта другим пользователем
	ErrFormForbidden = fmt.Errorf("%w: form belongs to another user", apperrors.ErrForbidden)
)

// FormView - снимок состояния формы для ответа клиенту
type FormView struct {
	ID         string
	Mode       editor.Mode
	QuestionID uint
	Fields     editor.Fields
	Options    []editor.Option
	Correct    []int
	CanRemove  bool
	Report     editor.Report
}

// form - открытая форма. Редактор не синхронизирован, доступ к нему идёт под mu.
type form struct {
	id       string
	owner    string
	mu       sync.Mutex
	editor   *editor.Editor
	lastUsed time.Time
	closed   bool
}

func (f *form) view() *FormView {
	return &FormView{
		ID:         f.id,
		Mode:       f.editor.Mode(),
		QuestionID: f.editor.QuestionID(),
		Fields:     f.editor.Fields(),
		Options:    f.editor.Options(),
		Correct:    f.editor.CorrectIndices(),
		CanRemove:  f.editor.CanRemove(),
		Report:     f.editor.Validate(),
	}
}

// EditorService хранит открытые формы вопросов в памяти процесса
type EditorService struct {
	questionRepo repository.QuestionRepository
	idleTTL      time.Duration
	now          func() time.Time

	mu    sync.RWMutex
	forms map[string]*form
}

// NewEditorService создает сервис форм
func NewEditorService(questionRepo repository.QuestionRepository, idleTTL time.Duration) *EditorService {
	return &EditorService{
		questionRepo: questionRepo,
		idleTTL:      idleTTL,
		now:          time.Now,
		forms:        make(map[string]*form),
	}
}

func (s *EditorService) register(owner string, ed *editor.Editor) *FormView {
	f := &form{
		id:       uuid.NewString(),
		owner:    owner,
		editor:   ed,
		lastUsed: s.now(),
	}
	s.mu.Lock()
	s.forms[f.id] = f
	s.mu.Unlock()

	log.Printf("[EditorService] Открыта форма %s (%s) пользователем %s", f.id, ed.Mode(), owner)
	return f.view()
}

// OpenCreate открывает форму нового вопроса
func (s *EditorService) OpenCreate(owner string) *FormView {
	return s.register(owner, editor.NewCreate())
}

// OpenEdit загружает вопрос и открывает по нему форму редактирования.
// Ошибка загрузки возвращается как есть, форма при этом не создаётся.
func (s *EditorService) OpenEdit(ctx context.Context, owner string, questionID uint) (*FormView, error) {
	q, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	ed := editor.NewEdit(questionID)
	if err := ed.SeedFromQuestion(q); err != nil {
		return nil, err
	}
	return s.register(owner, ed), nil
}

// acquire находит форму и захватывает её мьютекс. Вызывающий обязан вызвать f.mu.Unlock().
func (s *EditorService) acquire(owner, formID string) (*form, error) {
	s.mu.RLock()
	f, ok := s.forms[formID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFormNotFound
	}
	if f.owner != owner {
		return nil, ErrFormForbidden
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFormNotFound
	}
	f.lastUsed = s.now()
	return f, nil
}

// update применяет мутацию к форме. При ошибке состояние формы не меняется.
func (s *EditorService) update(owner, formID string, fn func(ed *editor.Editor) error) (*FormView, error) {
	f, err := s.acquire(owner, formID)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	if err := fn(f.editor); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// Get возвращает текущее состояние формы
func (s *EditorService) Get(owner, formID string) (*FormView, error) {
	return s.update(owner, formID, func(*editor.Editor) error { return nil })
}

// SetFields заменяет поля вопроса
func (s *EditorService) SetFields(owner, formID string, fields editor.Fields) (*FormView, error) {
	return s.update(owner, formID, func(ed *editor.Editor) error {
		ed.SetFields(fields)
		return nil
	})
}

// AddOption добавляет пустой вариант в конец
func (s *EditorService) AddOption(owner, formID string) (*FormView, error) {
	return s.update(owner, formID, func(ed *editor.Editor) error {
		ed.AddOption()
		return nil
	})
}

// SetOption меняет текст и изображение варианта
func (s *EditorService) SetOption(owner, formID string, index int, opt editor.Option) (*FormView, error) {
	return s.update(owner, formID, func(ed *editor.Editor) error {
		return ed.SetOption(index, opt)
	})
}

// RemoveOption удаляет вариант со сдвигом правильных ответов
func (s *EditorService) RemoveOption(owner, formID string, index int) (*FormView, error) {
	return s.update(owner, formID, func(ed *editor.Editor) error {
		return ed.RemoveOption(index)
	})
}

// ToggleCorrect переключает отметку правильного ответа
func (s *EditorService) ToggleCorrect(owner, formID string, index int) (*FormView, error) {
	return s.update(owner, formID, func(ed *editor.Editor) error {
		return ed.ToggleCorrect(index)
	})
}

// Validate возвращает флаги валидации формы
func (s *EditorService) Validate(owner, formID string) (editor.Report, error) {
	f, err := s.acquire(owner, formID)
	if err != nil {
		return editor.Report{}, err
	}
	defer f.mu.Unlock()
	return f.editor.Validate(), nil
}

// Submit проверяет форму и отправляет вопрос на создание или обновление.
// При успехе форма закрывается. При ошибке бэкенда форма остаётся
// в последнем состоянии, чтобы пользователь мог исправить и отправить снова.
func (s *EditorService) Submit(ctx context.Context, owner, formID string) (*entity.Question, error) {
	f, err := s.acquire(owner, formID)
	if err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	submission, err := f.editor.ToSubmission()
	if err != nil {
		return nil, err
	}

	var saved *entity.Question
	if f.editor.Mode() == editor.ModeEdit {
		saved, err = s.questionRepo.Update(ctx, f.editor.QuestionID(), submission)
	} else {
		saved, err = s.questionRepo.Create(ctx, submission)
	}
	if err != nil {
		log.Printf("[EditorService] Ошибка отправки формы %s (%s): %v", formID, f.editor.Mode(), err)
		return nil, err
	}

	s.closeLocked(f)
	log.Printf("[EditorService] Форма %s отправлена, вопрос #%d сохранён", formID, saved.ID)
	return saved, nil
}

// Cancel закрывает форму без отправки
func (s *EditorService) Cancel(owner, formID string) error {
	f, err := s.acquire(owner, formID)
	if err != nil {
		return err
	}
	defer f.mu.Unlock()

	s.closeLocked(f)
	return nil
}

// closeLocked удаляет форму из реестра. f.mu должен быть захвачен.
func (s *EditorService) closeLocked(f *form) {
	f.closed = true
	s.mu.Lock()
	delete(s.forms, f.id)
	s.mu.Unlock()
}

// Count возвращает количество открытых форм
func (s *EditorService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}

// Sweep удаляет формы без обращений дольше idleTTL. Занятые формы пропускаются.
func (s *EditorService) Sweep() int {
	s.mu.RLock()
	candidates := make([]*form, 0, len(s.forms))
	for _, f := range s.forms {
		candidates = append(candidates, f)
	}
	s.mu.RUnlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for _, f := range candidates {
		if !f.mu.TryLock() {
			continue
		}
		if !f.closed && f.lastUsed.Before(cutoff) {
			s.closeLocked(f)
			removed++
		}
		f.mu.Unlock()
	}
	return removed
}

// Run периодически вызывает Sweep до отмены контекста
func (s *EditorService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[EditorService] Очистка форм запущена: интервал %v, простой %v", interval, s.idleTTL)
	for {
		select {
		case <-ctx.Done():
			log.Println("[EditorService] Очистка форм остановлена")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("[EditorService] Удалено %d неактивных форм", n)
			}
		}
	}
}

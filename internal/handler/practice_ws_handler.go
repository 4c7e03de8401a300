package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	apperrors "github.com/yourusername/musictheory-api/internal/pkg/errors"

	"github.com/yourusername/musictheory-api/internal/handler/dto"
	"github.com/yourusername/musictheory-api/internal/service"
	"github.com/yourusername/musictheory-api/pkg/auth"
)

// PracticeWSHandler ведет интерактивную сессию практики по WebSocket:
// клиент шлет ответы на вопросы, сервер возвращает оценку и серию.
type PracticeWSHandler struct {
	attemptService *service.AttemptService
	jwtService     *auth.JWTService
	allowedOrigins []string
}

// NewPracticeWSHandler создает новый обработчик практики
func NewPracticeWSHandler(
	attemptService *service.AttemptService,
	jwtService *auth.JWTService,
	allowedOrigins []string,
) *PracticeWSHandler {
	return &PracticeWSHandler{
		attemptService: attemptService,
		jwtService:     jwtService,
		allowedOrigins: allowedOrigins,
	}
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

func (h *PracticeWSHandler) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Пустой Origin означает небраузерный клиент (мобильное приложение, curl)
			if origin == "" {
				return true
			}

			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}

			log.Printf("[PracticeWS] Отклонен неразрешенный origin: %s", origin)
			return false
		},
		EnableCompression: true,
	}
}

// practiceEvent представляет входящее сообщение клиента
type practiceEvent struct {
	Type string `json:"type"`
	dto.SubmitAttemptRequest
}

// practiceResult представляет исходящее сообщение сервера
type practiceResult struct {
	Type      string                     `json:"type"`
	Result    *dto.AttemptResultResponse `json:"result,omitempty"`
	Answered  int                        `json:"answered,omitempty"`
	Correct   int                        `json:"correct,omitempty"`
	Error     string                     `json:"error,omitempty"`
	ErrorType string                     `json:"error_type,omitempty"`
	Timestamp int64                      `json:"timestamp,omitempty"`
}

// HandleConnection аутентифицирует клиента по токену и запускает цикл сессии
func (h *PracticeWSHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token parameter", "error_type": "token_missing"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		log.Printf("[PracticeWS] Невалидный токен: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[PracticeWS] Ошибка апгрейда соединения: %v", err)
		return
	}

	log.Printf("[PracticeWS] Сессия практики открыта для пользователя ID=%d", claims.UserID)
	h.runSession(conn, claims.UserID)
}

// runSession читает ответы клиента до закрытия соединения
func (h *PracticeWSHandler) runSession(conn *gorillaws.Conn, userID uint) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("[PracticeWS] Ошибка закрытия соединения пользователя ID=%d: %v", userID, err)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	answered := 0
	correct := 0

	for {
		var event practiceEvent
		if err := conn.ReadJSON(&event); err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				log.Printf("[PracticeWS] Неожиданное закрытие сессии пользователя ID=%d: %v", userID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		switch event.Type {
		case "heartbeat":
			h.send(conn, userID, practiceResult{
				Type:      "heartbeat",
				Timestamp: time.Now().UnixMilli(),
			})

		case "answer":
			result, err := h.attemptService.SubmitAnswer(userID, event.SubmitAttemptRequest)
			if err != nil {
				h.send(conn, userID, practiceResult{
					Type:      "error",
					Error:     err.Error(),
					ErrorType: answerErrorType(err),
				})
				continue
			}

			answered++
			if result.IsCorrect {
				correct++
			}
			h.send(conn, userID, practiceResult{
				Type:     "result",
				Result:   result,
				Answered: answered,
				Correct:  correct,
			})

		default:
			h.send(conn, userID, practiceResult{
				Type:      "error",
				Error:     "Unknown event type",
				ErrorType: "unknown_event",
			})
		}
	}
}

// pingLoop поддерживает соединение живым до завершения сессии
func (h *PracticeWSHandler) pingLoop(conn *gorillaws.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(gorillaws.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *PracticeWSHandler) send(conn *gorillaws.Conn, userID uint, msg practiceResult) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[PracticeWS] Ошибка отправки сообщения пользователю ID=%d: %v", userID, err)
	}
}

func answerErrorType(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "validation_error"
	case errors.Is(err, apperrors.ErrNotFound):
		return "question_not_found"
	default:
		return "internal_error"
	}
}

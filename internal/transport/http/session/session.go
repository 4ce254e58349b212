package session

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	resp "optical-console/internal/transport/http/response"
)

const (
	CookieName = "optical-console-session"
	// KeyToken 后端 access token 的固定 key，退出时删除
	KeyToken = "authToken"
	keySID   = "sid"
	keyFlash = "notice"

	ctxKey = "console.session"
)

func init() { gob.Register(resp.Notification{}) }

type Options struct {
	Secret string
	MaxAge int // 秒
	Secure bool
}

type Manager struct {
	store *sessions.CookieStore
	log   *zap.Logger
}

// NewManager 签名 + 加密 cookie，两把 key 都由 secret 派生
func NewManager(opt Options, log *zap.Logger) *Manager {
	hashKey := sha256.Sum256([]byte("hash:" + opt.Secret))
	blockKey := sha256.Sum256([]byte("block:" + opt.Secret))
	st := sessions.NewCookieStore(hashKey[:], blockKey[:])
	st.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opt.MaxAge,
		HttpOnly: true,
		Secure:   opt.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: st, log: log}
}

// Middleware 每个请求加载一次会话放进 gin.Context
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.store.Get(c.Request, CookieName)
		if err != nil {
			// 密钥轮换或 cookie 被篡改，当作新会话
			m.log.Debug("session decode failed", zap.Error(err))
		}
		sess := &Session{s: s, c: c, log: m.log}
		if sess.SID() == "" {
			sess.RotateSID()
		}
		c.Set(ctxKey, sess)
		c.Next()
	}
}

func From(c *gin.Context) *Session {
	if v, ok := c.Get(ctxKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

type Session struct {
	s     *sessions.Session
	c     *gin.Context
	log   *zap.Logger
	dirty bool
}

// Token 实现 api.TokenSource
func (s *Session) Token() string {
	v, _ := s.s.Values[KeyToken].(string)
	return v
}

func (s *Session) HasToken() bool { return s.Token() != "" }

func (s *Session) SetToken(tok string) {
	s.s.Values[KeyToken] = tok
	s.dirty = true
}

func (s *Session) ClearToken() {
	delete(s.s.Values, KeyToken)
	s.dirty = true
}

// SID 查询缓存的命名空间
func (s *Session) SID() string {
	v, _ := s.s.Values[keySID].(string)
	return v
}

func (s *Session) RotateSID() string {
	sid := uuid.NewString()
	s.s.Values[keySID] = sid
	s.dirty = true
	return sid
}

func (s *Session) AddFlash(n resp.Notification) {
	s.s.AddFlash(n, keyFlash)
	s.dirty = true
}

// Flashes 取出并清空
func (s *Session) Flashes() []resp.Notification {
	raw := s.s.Flashes(keyFlash)
	if len(raw) == 0 {
		return nil
	}
	s.dirty = true
	out := make([]resp.Notification, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(resp.Notification); ok {
			out = append(out, n)
		}
	}
	return out
}

// Save 必须在写响应体之前调用
func (s *Session) Save() {
	if !s.dirty {
		return
	}
	if err := s.s.Save(s.c.Request, s.c.Writer); err != nil {
		s.log.Warn("session save failed", zap.String("sid", s.SID()), zap.Error(err))
		return
	}
	s.dirty = false
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dreamkkun/retention/internal/access"
	"github.com/dreamkkun/retention/internal/users"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		msg := "아이디 또는 비밀번호가 올바르지 않습니다."
		if errors.Is(err, users.ErrNotApproved) {
			status = http.StatusForbidden
			msg = "승인 대기 중인 계정입니다."
		}
		s.log.Warn("login failed", "username", req.Username, "error", err)
		jsonError(w, msg, status)
		return
	}
	if u.Role != users.RoleAdmin {
		jsonError(w, "관리자 계정이 아닙니다.", http.StatusForbidden)
		return
	}

	token := s.sessions.Create(access.Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	})
	s.log.Info("admin login", "username", u.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"token":   token,
		"user":    u,
	})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	s.sessions.Delete(strings.TrimPrefix(auth, "Bearer "))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := s.users.Register(req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			jsonError(w, "이미 등록된 아이디입니다.", http.StatusConflict)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user":    u,
		"message": "가입 신청이 접수되었습니다. 관리자 승인을 기다려주세요.",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"users": s.users.List()})
}

func (s *Server) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	s.userAction(w, r, s.users.Approve)
}

func (s *Server) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	s.userAction(w, r, s.users.Reject)
}

func (s *Server) userAction(w http.ResponseWriter, r *http.Request, fn func(string) (users.Public, error)) {
	id := chi.URLParam(r, "id")
	u, err := fn(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			jsonError(w, "user not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "user": u})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess, ok := SessionFrom(r.Context()); ok && sess.UserID == id {
		jsonError(w, "자기 자신은 삭제할 수 없습니다.", http.StatusBadRequest)
		return
	}
	if err := s.users.Delete(id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			jsonError(w, "user not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	u, err := s.users.ChangeRole(id, users.Role(req.Role))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			jsonError(w, "user not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user":    u,
		"message": "역할이 변경되었습니다.",
	})
}

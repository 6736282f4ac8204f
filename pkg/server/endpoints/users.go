package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
)

// RegisterUserEndpoints registers the account endpoints. Registration and
// login are public; the rest require a session token.
func RegisterUserEndpoints(s *server.Server) {
	users := s.Users
	log := s.Logger.Named("UserEndpoints")
	auth := s.Authenticator.Middleware

	userRouter := s.Router.PathPrefix("/user").Subrouter()

	// POST /user/register - Create an account
	userRouter.HandleFunc("/register", handleRegister(users, log)).Methods("POST")

	// POST /user/login - Exchange credentials for a token
	userRouter.HandleFunc("/login", handleLogin(users, log)).Methods("POST")

	// PUT /user/reset-pwd - Change the caller's password
	userRouter.Handle("/reset-pwd", auth(handleResetPassword(users, log))).Methods("PUT")

	// GET /user/info - The caller's profile
	userRouter.Handle("/info", auth(handleUserInfo(users, log))).Methods("GET")
}

func handleRegister(users *service.UserService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondWithError(w, log, err)
			return
		}

		user, err := users.Register(r.Context(), in)
		if err != nil {
			audit.Log(audit.RegisterEvent{
				Username:     in.Username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: apperr.PublicMessage(err),
			})
			respondWithError(w, log, err)
			return
		}

		audit.Log(audit.RegisterEvent{
			Username: user.Username,
			UserID:   user.ID,
			ClientIP: clientIP(r),
			Success:  true,
		})
		respondWithJSON(w, http.StatusCreated, "register successful", user)
	}
}

func handleLogin(users *service.UserService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.LoginInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondWithError(w, log, err)
			return
		}

		result, err := users.Login(r.Context(), in)
		if err != nil {
			audit.Log(audit.AuthenticateEvent{
				Username:     in.Username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: apperr.PublicMessage(err),
			})
			respondWithError(w, log, err)
			return
		}

		audit.Log(audit.AuthenticateEvent{
			Username: result.UserInfo.Username,
			UserID:   result.UserInfo.ID,
			ClientIP: clientIP(r),
			Success:  true,
		})
		respondWithJSON(w, http.StatusOK, "login successful", result)
	}
}

func handleResetPassword(users *service.UserService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			respondWithError(w, log, err)
			return
		}

		var in service.ResetPasswordInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondWithError(w, log, err)
			return
		}

		if err := users.ResetPassword(r.Context(), userID, in); err != nil {
			audit.Log(audit.PasswordResetEvent{
				UserID:   userID,
				ClientIP: clientIP(r),
				Reason:   apperr.PublicMessage(err),
			})
			respondWithError(w, log, err)
			return
		}

		audit.Log(audit.PasswordResetEvent{
			UserID:   userID,
			ClientIP: clientIP(r),
			Success:  true,
		})
		respondWithJSON(w, http.StatusOK, "password reset, please log in again", nil)
	}
}

func handleUserInfo(users *service.UserService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			respondWithError(w, log, err)
			return
		}

		profile, err := users.Info(r.Context(), userID)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "user info retrieved", profile)
	}
}

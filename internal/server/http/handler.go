package http

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, in services.UpdateUserInput) (*models.User, error)
}

type ProfileService interface {
	Create(ctx context.Context, userID string, in services.CreateProfileInput) (*models.Profile, error)
	Get(ctx context.Context, id string) (*services.ProfileView, error)
	Popular(ctx context.Context, limit int) ([]services.ProfileView, error)
	PreviewUploadURL(ctx context.Context, userID, profileID string) (*services.PreviewUpload, error)
}

type ReactionService interface {
	Toggle(ctx context.Context, userID, profileID string, polarity models.Polarity) (models.ReactionState, error)
}

type CommentService interface {
	Add(ctx context.Context, userID, profileID, content string) (*models.Comment, error)
	List(ctx context.Context, profileID string, page, limit int) (*services.CommentPage, error)
}

type RoleService interface {
	List(ctx context.Context) ([]models.Role, error)
}

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

func (s *HTTPServer) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}

	user, err := s.users.Register(userContext(c), in)
	if err != nil {
		return err
	}

	s.logger.Info(userContext(c), "user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "registration successful",
		"user":    toUserResponse(user),
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}

	token, user, err := s.users.Login(userContext(c), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse{Token: token, User: toUserResponse(user)})
}

func (s *HTTPServer) me(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	user, err := s.users.Me(userContext(c), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(toUserResponse(user))
}

func (s *HTTPServer) listUsers(c *fiber.Ctx) error {
	users, err := s.users.List(userContext(c))
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (s *HTTPServer) updateUser(c *fiber.Ctx) error {
	var in services.UpdateUserInput
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}

	user, err := s.users.Update(userContext(c), c.Params("id"), in)
	if err != nil {
		return err
	}

	s.logger.Info(userContext(c), "user updated", "user_id", user.ID)
	return c.JSON(fiber.Map{
		"message": "user updated",
		"user":    toUserResponse(user),
	})
}

func (s *HTTPServer) popularProfiles(c *fiber.Ctx) error {
	views, err := s.profiles.Popular(userContext(c), c.QueryInt("limit", services.DefaultPopularLimit))
	if err != nil {
		return err
	}
	out := make([]profileResponse, 0, len(views))
	for i := range views {
		out = append(out, toProfileResponse(&views[i]))
	}
	return c.JSON(out)
}

func (s *HTTPServer) getProfile(c *fiber.Ctx) error {
	v, err := s.profiles.Get(userContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toProfileResponse(v))
}

func (s *HTTPServer) createProfile(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var in services.CreateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}

	p, err := s.profiles.Create(userContext(c), claims.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      p.ID,
		"message": "profile created",
	})
}

func (s *HTTPServer) previewUpload(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	up, err := s.profiles.PreviewUploadURL(userContext(c), claims.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"key": up.Key, "url": up.URL})
}

func (s *HTTPServer) like(c *fiber.Ctx) error {
	return s.toggle(c, models.PolarityLike)
}

func (s *HTTPServer) dislike(c *fiber.Ctx) error {
	return s.toggle(c, models.PolarityDislike)
}

func (s *HTTPServer) toggle(c *fiber.Ctx, polarity models.Polarity) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	state, err := s.reactions.Toggle(userContext(c), claims.UserID, c.Params("id"), polarity)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (s *HTTPServer) addComment(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var in commentRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}

	comment, err := s.comments.Add(userContext(c), claims.UserID, c.Params("id"), in.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "comment added",
		"comment": toCommentResponse(comment),
	})
}

func (s *HTTPServer) listComments(c *fiber.Ctx) error {
	page, err := s.comments.List(userContext(c), c.Params("id"), c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultCommentPageSize))
	if err != nil {
		return err
	}

	out := commentPageResponse{
		Comments:   make([]commentResponse, 0, len(page.Comments)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	for i := range page.Comments {
		out.Comments = append(out.Comments, toCommentResponse(&page.Comments[i]))
	}
	return c.JSON(out)
}

func (s *HTTPServer) listRoles(c *fiber.Ctx) error {
	roles, err := s.roles.List(userContext(c))
	if err != nil {
		return err
	}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResponse{ID: r.ID, Name: r.Name})
	}
	return c.JSON(out)
}

package invitation

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/competiscore/competiscore/internal/auth/domain"
	"github.com/competiscore/competiscore/internal/invitation/domain"
	"github.com/competiscore/competiscore/internal/invitation/repository"
	"github.com/competiscore/competiscore/internal/invitation/service"
	"github.com/competiscore/competiscore/internal/join"
	"go.uber.org/fx"
)

type userDirectory struct {
	users authdomain.Repository
}

func (d userDirectory) ResolveByEmail(ctx context.Context, email string) (snowflake.ID, error) {
	user, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		if err == authdomain.ErrUserNotFound {
			return 0, domain.ErrInviteeNotFound
		}
		return 0, err
	}
	return user.ID, nil
}

var Module = fx.Module("invitation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(users authdomain.Repository) domain.UserDirectory {
		return userDirectory{users: users}
	}),
	fx.Provide(func(repo domain.Repository) join.InvitationCleanup {
		return repo.(join.InvitationCleanup)
	}),
	fx.Provide(service.NewService),
)

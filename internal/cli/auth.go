package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/session"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := a.newFlags("login", "login [-email e-mail] -password senha [-remember]")
	email := fs.String("email", "", "e-mail da conta (padrão: último e-mail lembrado)")
	password := fs.String("password", "", "senha")
	remember := fs.Bool("remember", false, "lembrar o e-mail no próximo login")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		if last, ok := a.session.LastEmail(ctx); ok {
			*email = last
		}
	}
	if err := a.require(fs, *email, *password); err != nil {
		return err
	}

	result, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, result.Token, result.UserType); err != nil {
		return err
	}
	if err := a.session.RememberEmail(ctx, *email, *remember); err != nil {
		a.logger.Warn("failed to persist remembered e-mail", "err", err)
	}

	kind := "cliente"
	if result.UserType == session.UserArtist {
		kind = "artista"
	}
	a.console.Success(ctx, fmt.Sprintf("Login realizado com sucesso como %s", kind))
	return nil
}

func (a *App) cmdLogout(ctx context.Context, args []string) error {
	if err := a.parse(a.newFlags("logout", "logout"), args); err != nil {
		return err
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.console.Success(ctx, "Sessão encerrada")
	return nil
}

func (a *App) cmdWhoami(_ context.Context, args []string) error {
	if err := a.parse(a.newFlags("whoami", "whoami"), args); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		fmt.Fprintln(a.out, "Não autenticado")
		return nil
	}
	fmt.Fprintf(a.out, "Tipo: %s\n", a.session.UserType())
	claims, ok := a.session.Current()
	if !ok {
		fmt.Fprintln(a.out, "Token sem identidade legível")
		return nil
	}
	fmt.Fprintf(a.out, "ID: %s\n", claims.UserID())
	if claims.Email != "" {
		fmt.Fprintf(a.out, "E-mail: %s\n", claims.Email)
	}
	if !claims.ExpiresAt.IsZero() {
		state := "válida"
		if claims.Expired(a.now()) {
			state = "expirada"
		}
		fmt.Fprintf(a.out, "Expira em: %s (%s)\n", claims.ExpiresAt.In(time.Local).Format("02/01/2006 15:04"), state)
	}
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := a.newFlags("register", "register [opções] user|artist")
	name := fs.String("name", "", "nome")
	email := fs.String("email", "", "e-mail")
	password := fs.String("password", "", "senha (mínimo 6 caracteres)")
	city := fs.String("city", "", "cidade")
	state := fs.String("state", "", "UF")
	bio := fs.String("bio", "", "biografia (artistas)")
	types := fs.String("types", "", "tipos de arte separados por vírgula (artistas)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	kind, err := a.positional(fs)
	if err != nil {
		return err
	}

	switch kind {
	case "user":
		user, err := a.client.RegisterUser(ctx, api.NewUser{
			Name: *name, Email: *email, Password: *password, City: *city, State: *state,
		})
		if err != nil {
			return err
		}
		a.console.Success(ctx, fmt.Sprintf("Conta criada para %s", user.Email))
	case "artist":
		artist, err := a.client.RegisterArtist(ctx, api.NewArtist{
			Name: *name, Email: *email, Password: *password, City: *city, State: *state,
			Bio: *bio, ArtTypes: api.SplitArtTypes(*types),
		})
		if err != nil {
			return err
		}
		a.console.Success(ctx, fmt.Sprintf("Conta de artista criada para %s", artist.Email))
	default:
		fs.Usage()
		return errUsage
	}
	return nil
}

func (a *App) cmdPasswordReset(ctx context.Context, args []string) error {
	fs := a.newFlags("password-reset", "password-reset -email e-mail [-code código] [-password nova -confirm nova] request|validate|reset")
	email := fs.String("email", "", "e-mail da conta")
	code := fs.String("code", "", "código recebido por e-mail")
	password := fs.String("password", "", "nova senha")
	confirm := fs.String("confirm", "", "confirmação da nova senha")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	step, err := a.positional(fs)
	if err != nil {
		return err
	}
	if err := a.require(fs, *email); err != nil {
		return err
	}

	switch step {
	case "request":
		if err := a.client.RequestPasswordReset(ctx, *email); err != nil {
			return err
		}
		a.console.Success(ctx, "Código de recuperação enviado para "+*email)
	case "validate":
		if err := a.require(fs, *code); err != nil {
			return err
		}
		if err := a.client.ValidateResetCode(ctx, *email, *code); err != nil {
			return err
		}
		a.console.Success(ctx, "Código válido")
	case "reset":
		if err := a.require(fs, *code, *password); err != nil {
			return err
		}
		if err := a.client.ResetPasswordConfirmed(ctx, *email, *code, *password, *confirm); err != nil {
			return err
		}
		a.console.Success(ctx, "Senha redefinida com sucesso")
	default:
		fs.Usage()
		return errUsage
	}
	return nil
}

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	if err := a.parse(a.newFlags("profile", "profile"), args); err != nil {
		return err
	}
	artist, err := a.client.MyProfile(ctx)
	if err != nil {
		return err
	}
	a.printArtist(artist)
	return nil
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

var firstNumber = regexp.MustCompile(`\d+`)

// RegistrationContacts holds the contact ids a new domain is registered
// with.
type RegistrationContacts struct {
	Owner string
	Tech  string
	Admin string
	Zone  string
}

// RegisterNewDomainByContactID registers a free domain and returns the id
// the registry assigned to it.
func (s *Service) RegisterNewDomainByContactID(ctx context.Context, name string, contacts RegistrationContacts) (string, error) {
	name, err := ValidateDomainName(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(contacts.Owner) == "" {
		return "", domain.InvalidArgument("owner contact id is required", name)
	}
	if strings.TrimSpace(s.defaultNS) == "" {
		return "", domain.InvalidArgument("default nameserver is not configured", name)
	}

	available, err := s.CheckDomainAvailability(ctx, name, true)
	if err != nil {
		return "", err
	}
	if !available {
		return "", domain.InvalidArgument("domain is not free", name)
	}

	res, err := s.engine.Execute(ctx, CmdRegister, registration(name, s.defaultNS, contacts), name)
	if err != nil {
		return "", err
	}

	msg, _ := res.Message()
	id := firstNumber.FindString(msg)
	if id == "" {
		return "", domain.ResponseError("unable to create domain: "+dapi.NormalizeMessage(msg), name, 0)
	}

	s.logger.Info("domain registered", slog.String("domain", name), slog.String("id", id))
	return id, nil
}

// ChangeDomainStatus requests a state transition. It is a no-op when the
// domain is already in target.
func (s *Service) ChangeDomainStatus(ctx context.Context, name string, target domain.DomainState, cached bool) error {
	current, err := s.DomainState(ctx, name, cached)
	if err != nil {
		return err
	}
	if current == target.Code() {
		return nil
	}

	rec, err := s.DomainInfo(ctx, name, true)
	if err != nil {
		return err
	}
	name, _ = ValidateDomainName(name)

	if err := s.verify(ctx, CmdStateChange, []string{stateChange(rec.ObjectID(), target.Code())}, name, AckStateChanged); err != nil {
		return err
	}

	s.logger.Info("domain state changed",
		slog.String("domain", name),
		slog.String("from", current),
		slog.String("to", target.Code()),
	)
	return nil
}

// ActivateDomain puts the domain into the base active state.
func (s *Service) ActivateDomain(ctx context.Context, name string, cached bool) error {
	return s.ChangeDomainStatus(ctx, name, domain.StateOK, cached)
}

// DeactivateDomain stops automatic prolongation.
func (s *Service) DeactivateDomain(ctx context.Context, name string, cached bool) error {
	return s.ChangeDomainStatus(ctx, name, domain.StateDeactivated, cached)
}

// DeactivateZoneDomain stops automatic prolongation and removes the domain
// from the zone.
func (s *Service) DeactivateZoneDomain(ctx context.Context, name string, cached bool) error {
	return s.ChangeDomainStatus(ctx, name, domain.StateZoneDeactivated, cached)
}

// RenewDomain activates the domain. When registrarID is set, the domain must
// belong to that registrar.
func (s *Service) RenewDomain(ctx context.Context, name, registrarID string) error {
	if strings.TrimSpace(registrarID) != "" {
		ours, err := s.IsDomainOurs(ctx, name, registrarID, true)
		if err != nil {
			return err
		}
		if !ours {
			return domain.RequestError("domain does not belong to us", name, nil)
		}
	}
	return s.ActivateDomain(ctx, name, true)
}

// TransferDomain requests the domain be moved to registrarID, optionally
// setting its primary nameserver in the same command.
func (s *Service) TransferDomain(ctx context.Context, name, registrarID, nameserver string, cached bool) error {
	registrarID = strings.TrimSpace(registrarID)
	if registrarID == "" {
		return domain.InvalidArgument("registrar id is required", name)
	}

	ours, err := s.IsDomainOurs(ctx, name, registrarID, cached)
	if err != nil {
		return err
	}
	if ours {
		return domain.RequestError("domain transfer is not possible, domain belongs to us", name, nil)
	}

	rec, err := s.DomainInfo(ctx, name, true)
	if err != nil {
		return err
	}
	name, _ = ValidateDomainName(name)

	blocks := []string{attributeChange(rec.ObjectID(), domain.FieldRegistrarID, registrarID)}
	if ns := strings.TrimSpace(nameserver); ns != "" {
		blocks = append(blocks, attributeChange(rec.ObjectID(), domain.FieldPrimaryNS, ns))
	}

	if err := s.verify(ctx, CmdAttributeChange, blocks, name, ""); err != nil {
		return err
	}
	s.logger.Info("domain transfer requested", slog.String("domain", name), slog.String("registrar", registrarID))
	return nil
}

// verify runs a command whose success is judged by its acknowledgement
// text. An empty expected text means the default acknowledgement.
func (s *Service) verify(ctx context.Context, command string, blocks []string, name, expected string) error {
	ok, msg, err := s.engine.VerifyBasic(ctx, command, blocks, name, expected)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ResponseError("unexpected acknowledgement: "+msg, name, 0)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrDomainNotFound)
}

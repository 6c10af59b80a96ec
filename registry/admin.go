package registry

import (
	"fmt"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/util"
)

func (r *Registry) setContractStatus(cfg *persist.Config, ec ExecCtx, level string) error {
	if ec.Caller != cfg.Admin {
		return persist.ErrNotAdmin{}
	}
	status, err := parseContractStatus(level)
	if err != nil {
		return err
	}
	cfg.Status = status
	return nil
}

func (r *Registry) changeAdmin(cfg *persist.Config, ec ExecCtx, newAdmin persist.Address) error {
	if ec.Caller != cfg.Admin {
		return persist.ErrNotAdmin{}
	}
	if !newAdmin.Valid() {
		return fmt.Errorf("new admin address must not be empty")
	}
	cfg.Admin = newAdmin
	if !util.Contains(cfg.Minters, newAdmin) {
		cfg.Minters = append(cfg.Minters, newAdmin)
	}
	return nil
}

func (r *Registry) addMinters(cfg *persist.Config, ec ExecCtx, minters []persist.Address) error {
	if ec.Caller != cfg.Admin {
		return persist.ErrNotAdmin{}
	}
	for _, minter := range minters {
		if !minter.Valid() {
			return fmt.Errorf("minter address must not be empty")
		}
		if !util.Contains(cfg.Minters, minter) {
			cfg.Minters = append(cfg.Minters, minter)
		}
	}
	return nil
}

func (r *Registry) removeMinters(cfg *persist.Config, ec ExecCtx, minters []persist.Address) error {
	if ec.Caller != cfg.Admin {
		return persist.ErrNotAdmin{}
	}
	kept := cfg.Minters[:0]
	for _, existing := range cfg.Minters {
		if !util.Contains(minters, existing) {
			kept = append(kept, existing)
		}
	}
	cfg.Minters = kept
	return nil
}

func parseContractStatus(level string) (persist.ContractStatus, error) {
	switch level {
	case "normal":
		return persist.StatusNormal, nil
	case "stop_transactions":
		return persist.StatusStopTransactions, nil
	case "stop_all":
		return persist.StatusStopAll, nil
	default:
		return 0, fmt.Errorf("invalid contract status level: %q", level)
	}
}

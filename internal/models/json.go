package models

import "encoding/json"

// UnmarshalJSON accepts both shapes found in stored tickets: a bare serial
// string, or an object with per-ticket overrides.
func (r *AssetRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var serial string
		if err := json.Unmarshal(data, &serial); err != nil {
			return err
		}
		*r = AssetRef{Serial: serial}
		return nil
	}

	var obj struct {
		Serial       string `json:"serial"`
		MovementHint string `json:"movementHint"`
		Movement     string `json:"movementType"`
		DeviceHint   string `json:"deviceHint"`
		Device       string `json:"deviceType"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	ref := AssetRef{Serial: obj.Serial, MovementHint: obj.MovementHint, DeviceHint: obj.DeviceHint, Inline: true}
	if ref.MovementHint == "" {
		ref.MovementHint = obj.Movement
	}
	if ref.DeviceHint == "" {
		ref.DeviceHint = obj.Device
	}
	*r = ref
	return nil
}

// UnmarshalJSON folds the legacy Spanish field aliases into the canonical
// asset fields. A canonical field always wins over its alias.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var obj struct {
		Serial       string `json:"serial"`
		Type         string `json:"type"`
		MovementType string `json:"movementType"`
		TipoMov      string `json:"tipoMovimiento"`
		DeviceType   string `json:"deviceType"`
		TipoDisp     string `json:"tipoDispositivo"`
		HardwareType string `json:"hardwareType"`
		Name         string `json:"name"`
		Description  string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	asset := Asset{
		Serial:       obj.Serial,
		Type:         obj.Type,
		MovementType: obj.MovementType,
		DeviceType:   obj.DeviceType,
		HardwareType: obj.HardwareType,
		Name:         obj.Name,
		Description:  obj.Description,
	}
	if asset.MovementType == "" {
		asset.MovementType = obj.TipoMov
	}
	if asset.DeviceType == "" {
		asset.DeviceType = obj.TipoDisp
	}
	*a = asset
	return nil
}

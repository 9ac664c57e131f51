package hierarchy

import (
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	objdomain "asset-hierarchy/internal/object/domain"
)

func ptr[T any](v T) *T { return &v }

func obj(id int64, name string, typ objdomain.Type, parent *int64) ObjectRow {
	return ObjectRow{ID: id, Name: name, Type: typ, ParentID: parent}
}

func dp(id int64, name, typ, value string) *dpdomain.Datapoint {
	return &dpdomain.Datapoint{ID: id, Name: name, Type: ptr(typ), Value: value, IsFresh: true}
}

func joined(o ObjectRow, d *dpdomain.Datapoint) JoinedRow {
	return JoinedRow{ObjectRow: o, Datapoint: d}
}

// hotelRows is a building with two floors; floor 1 has two rooms, room 101 a thermostat device.
// Objects with several datapoints repeat, as a left join would produce them.
func hotelRows() []JoinedRow {
	b := obj(1, "Hotel Grand", objdomain.TypeBuilding, nil)
	f1 := obj(2, "Floor 1", objdomain.TypeFloor, ptr(int64(1)))
	f2 := obj(3, "Floor 2", objdomain.TypeFloor, ptr(int64(1)))
	r101 := obj(4, "Room 101", objdomain.TypeRoom, ptr(int64(2)))
	r102 := obj(5, "Room 102", objdomain.TypeRoom, ptr(int64(2)))
	thermo := obj(6, "Thermostat", objdomain.TypeDevice, ptr(int64(4)))
	return []JoinedRow{
		joined(b, dp(100, "Main power", "power", "120")),
		joined(f1, nil),
		joined(f2, dp(101, "Floor 2 temperature", "temperature", "19")),
		joined(r101, dp(102, "Room 101 temperature", "temperature", "21")),
		joined(r101, dp(103, "Room 101 humidity", "humidity", "40")),
		joined(r102, dp(104, "Room 102 temperature", "temperature", "23")),
		joined(thermo, dp(105, "Setpoint", "setpoint", "22")),
		joined(thermo, dp(106, "Mode", "mode", "heat")),
	}
}

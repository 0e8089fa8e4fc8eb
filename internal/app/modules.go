package app

import (
	"github.com/vk/logdissect/internal/registry"
	"github.com/vk/logdissect/modules/keyvalue"
	"github.com/vk/logdissect/modules/queryparam"
	"github.com/vk/logdissect/modules/timestamp"
	"github.com/vk/logdissect/modules/urlquery"
)

// coreModules is the definitive list of all dissector modules that are
// compiled into the logdissect binary.
var coreModules = []registry.Module{
	&keyvalue.Module{},
	&urlquery.Module{},
	&queryparam.Module{},
	&timestamp.Module{},
}

/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package hostinfo reports facts about the running host, such as the booted
// kernel, using gopsutil.
package hostinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// ErrHostInfoUnavailable is returned when gopsutil reports no host data.
var ErrHostInfoUnavailable = errors.New("host information unavailable")

// Info describes the running system.
type Info struct {
	Hostname        string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	Uptime          time.Duration
}

// Collector reads host facts.
type Collector struct {
	infoWithContext func(context.Context) (*host.InfoStat, error)
}

// NewCollector returns a Collector backed by gopsutil.
func NewCollector() *Collector {
	return &Collector{infoWithContext: host.InfoWithContext}
}

// Collect returns the current host facts.
func (c *Collector) Collect(ctx context.Context) (*Info, error) {
	stat, err := c.infoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host info: %w", err)
	}

	if stat == nil {
		return nil, ErrHostInfoUnavailable
	}

	return &Info{
		Hostname:        stat.Hostname,
		Platform:        stat.Platform,
		PlatformVersion: stat.PlatformVersion,
		KernelVersion:   stat.KernelVersion,
		Uptime:          time.Duration(stat.Uptime) * time.Second,
	}, nil
}

// RunsKernel reports whether kernelVersion is the booted kernel. NixOS
// generations report the bare release ("6.6.30") while uname may carry a
// local suffix, so a prefix match on a release boundary is accepted.
func (i *Info) RunsKernel(kernelVersion string) bool {
	if i == nil || i.KernelVersion == "" || kernelVersion == "" {
		return false
	}

	if i.KernelVersion == kernelVersion {
		return true
	}

	rest, ok := strings.CutPrefix(i.KernelVersion, kernelVersion)

	return ok && (strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "+"))
}

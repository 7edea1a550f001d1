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

package generations

import "context"

// Source lists generations by fetching the inventory and decoding it.
type Source struct {
	fetcher Fetcher
}

var _ Lister = (*Source)(nil)

// NewSource returns a Source reading from f. A nil f uses NewRetriever.
func NewSource(f Fetcher) *Source {
	if f == nil {
		f = NewRetriever()
	}

	return &Source{fetcher: f}
}

// List runs one fetch-and-decode cycle. It returns either every generation
// or an error, never a partial list.
func (s *Source) List(ctx context.Context) ([]Generation, error) {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Copyright 2026 AgentDev Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

func Debug(args ...any) {
	logger().Debug(args...)
}

func Debugw(msg string, keysAndValues ...any) {
	logger().Debugw(msg, keysAndValues...)
}

func Info(args ...any) {
	logger().Info(args...)
}

func Infof(template string, args ...any) {
	logger().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...any) {
	logger().Infow(msg, keysAndValues...)
}

func Warn(args ...any) {
	logger().Warn(args...)
}

func Warnw(msg string, keysAndValues ...any) {
	logger().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	logger().Error(args...)
}

func Errorw(msg string, keysAndValues ...any) {
	logger().Errorw(msg, keysAndValues...)
}

func Fatalw(msg string, keysAndValues ...any) {
	logger().Fatalw(msg, keysAndValues...)
}
